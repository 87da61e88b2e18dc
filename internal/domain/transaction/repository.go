package transaction

import (
	"context"
)

// Repository defines the interface for transaction data access.
// Every method is scoped by userID; Update and Delete return
// domain.ErrNotFound when no row matches both the id and the owner.
type Repository interface {
	Create(ctx context.Context, userID int64, params Params) (*Transaction, error)
	Update(ctx context.Context, userID, id int64, params Params) (*Transaction, error)
	Delete(ctx context.Context, userID, id int64) error
	Count(ctx context.Context, q ListQuery) (int64, error)
	List(ctx context.Context, q ListQuery) ([]*Transaction, error)
	// ListAllByUser returns every transaction of the user, most recent date first.
	ListAllByUser(ctx context.Context, userID int64) ([]*Transaction, error)
}
