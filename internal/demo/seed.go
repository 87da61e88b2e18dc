package demo

import (
	"context"
	"errors"
	"fmt"
	"log"

	"moneymind/internal/domain"
	"moneymind/internal/domain/transaction"
	"moneymind/internal/domain/user"
	"moneymind/internal/shared/auth"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, params user.CreateUserParams) (*user.User, error)
	UpdateProfile(ctx context.Context, id int64, params user.UpdateProfileParams) (*user.User, error)
}

type TransactionStore interface {
	Create(ctx context.Context, userID int64, params transaction.Params) (*transaction.Transaction, error)
}

// Seeder writes sample data through the regular repositories.
type Seeder struct {
	users UserStore
	txs   TransactionStore
}

func NewSeeder(users UserStore, txs TransactionStore) *Seeder {
	return &Seeder{users: users, txs: txs}
}

// SeedDemo finds or creates the demo account and appends the sample
// transactions to it. Running it twice appends them twice.
func (s *Seeder) SeedDemo(ctx context.Context) (*user.User, int, error) {
	u, err := s.users.GetByEmail(ctx, Email)
	switch {
	case err == nil:
		log.Printf("Using existing demo user: %s", u.Email)
	case errors.Is(err, domain.ErrNotFound):
		u, err = s.createDemoUser(ctx)
		if err != nil {
			return nil, 0, err
		}
		log.Printf("Created demo user: %s", u.Email)
	default:
		return nil, 0, fmt.Errorf("failed to look up demo user: %w", err)
	}

	n, err := s.Append(ctx, u.ID, Transactions())
	return u, n, err
}

func (s *Seeder) createDemoUser(ctx context.Context) (*user.User, error) {
	hash, err := auth.HashPassword(Password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, user.CreateUserParams{
		Email:        Email,
		Name:         Name,
		PasswordHash: &hash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}

	phone, bio := Phone, Bio
	u, err = s.users.UpdateProfile(ctx, u.ID, user.UpdateProfileParams{Phone: &phone, Bio: &bio})
	if err != nil {
		return nil, fmt.Errorf("failed to set demo profile: %w", err)
	}
	return u, nil
}

// Append inserts params for userID in order and reports how many were
// written before the first failure.
func (s *Seeder) Append(ctx context.Context, userID int64, params []transaction.Params) (int, error) {
	for i, p := range params {
		if _, err := s.txs.Create(ctx, userID, p); err != nil {
			return i, fmt.Errorf("failed to insert transaction %d: %w", i+1, err)
		}
	}
	return len(params), nil
}
