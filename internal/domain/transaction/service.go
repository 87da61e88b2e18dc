package transaction

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Service contains the business logic for transaction operations
type Service struct {
	repo Repository
}

// NewService creates a new transaction service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListPage counts the matching rows and fetches the requested page
// concurrently. A page past the end yields an empty slice.
func (s *Service) ListPage(ctx context.Context, q ListQuery) (*Page, error) {
	q = q.Normalize()

	var (
		count int64
		txs   []*Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.Count(gctx, q)
		if err != nil {
			return fmt.Errorf("failed to count transactions: %w", err)
		}
		count = n
		return nil
	})
	g.Go(func() error {
		list, err := s.repo.List(gctx, q)
		if err != nil {
			return fmt.Errorf("failed to list transactions: %w", err)
		}
		txs = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if txs == nil {
		txs = []*Transaction{}
	}

	return &Page{
		Transactions: txs,
		TotalCount:   count,
		TotalPages:   TotalPages(count, q.Limit),
		CurrentPage:  q.Page,
	}, nil
}

func (s *Service) Create(ctx context.Context, userID int64, params Params) (*Transaction, error) {
	if _, err := ParseType(string(params.Type)); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, userID, params)
}

// Update replaces every editable field of a transaction owned by userID.
func (s *Service) Update(ctx context.Context, userID, id int64, params Params) (*Transaction, error) {
	if _, err := ParseType(string(params.Type)); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userID, id, params)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}
