package goal

import "context"

// Repository defines the interface for goal data access. Update and Delete
// return domain.ErrNotFound when the goal does not exist for that user.
type Repository interface {
	Create(ctx context.Context, userID int64, params Params) (*Goal, error)
	ListByUser(ctx context.Context, userID int64) ([]*Goal, error)
	Update(ctx context.Context, userID, id int64, params Params) (*Goal, error)
	Delete(ctx context.Context, userID, id int64) error
}
