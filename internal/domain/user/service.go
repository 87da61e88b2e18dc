package user

import (
	"context"
	"errors"
	"strings"
)

var ErrNameRequired = errors.New("name cannot be empty")

// Service contains the business logic for profile operations
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields. An empty string clears an
// optional field; the name can never be cleared.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*User, error) {
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		params.Name = &name
	}
	return s.repo.UpdateProfile(ctx, userID, params)
}
