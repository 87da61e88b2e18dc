package user

import "context"

// Repository defines the interface for user data access.
// Lookups return domain.ErrNotFound when no row matches and Create returns
// domain.ErrConflict when the email or Google id is already taken.
type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*User, error)
	LinkGoogle(ctx context.Context, id int64, params LinkGoogleParams) (*User, error)
	UpdateProfile(ctx context.Context, id int64, params UpdateProfileParams) (*User, error)
	// SetRefreshToken overwrites the stored refresh token; nil clears it.
	SetRefreshToken(ctx context.Context, id int64, token *string) error
	// RotateRefreshToken replaces current with next in a single conditional
	// write. It returns domain.ErrNotFound when current is not the stored value.
	RotateRefreshToken(ctx context.Context, id int64, current, next string) error
}
