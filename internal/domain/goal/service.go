package goal

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrTitleRequired  = errors.New("title is required")
	ErrNegativeAmount = errors.New("amounts cannot be negative")
)

// Service contains the business logic for goal operations
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (p *Params) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return ErrTitleRequired
	}
	if p.TargetAmount.IsNegative() || p.CurrentAmount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID int64, params Params) (*Goal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, userID, params)
}

// List returns the user's goals, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]*Goal, error) {
	goals, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []*Goal{}
	}
	return goals, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, params Params) (*Goal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userID, id, params)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}
