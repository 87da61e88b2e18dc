package postgres

import (
	"context"
	"fmt"

	"moneymind/internal/domain"
	"moneymind/internal/domain/user"
)

const userColumns = `id, email, password_hash, google_id, name, profile_photo, phone, bio, refresh_token, created_at, updated_at`

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.GoogleID, &u.Name,
		&u.ProfilePhoto, &u.Phone, &u.Bio, &u.RefreshToken,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	query := `
		INSERT INTO users (email, name, password_hash, google_id, profile_photo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		params.Email, params.Name, params.PasswordHash, params.GoogleID, params.ProfilePhoto,
	))
	if err != nil {
		return nil, mapError("failed to create user", err)
	}
	return u, nil
}

func (r *UserRepository) getBy(ctx context.Context, column string, value any) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		return nil, mapError(fmt.Sprintf("failed to get user by %s", column), err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*user.User, error) {
	return r.getBy(ctx, "google_id", googleID)
}

func (r *UserRepository) LinkGoogle(ctx context.Context, id int64, params user.LinkGoogleParams) (*user.User, error) {
	query := `
		UPDATE users
		SET google_id = $1,
		    name = $2,
		    profile_photo = COALESCE($3, profile_photo),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, params.GoogleID, params.Name, params.ProfilePhoto, id))
	if err != nil {
		return nil, mapError("failed to link google account", err)
	}
	return u, nil
}

// UpdateProfile leaves nil fields untouched; an empty string clears the
// optional columns.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, params user.UpdateProfileParams) (*user.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($1, name),
		    phone = CASE WHEN $2::text IS NULL THEN phone ELSE NULLIF($2, '') END,
		    bio = CASE WHEN $3::text IS NULL THEN bio ELSE NULLIF($3, '') END,
		    profile_photo = CASE WHEN $4::text IS NULL THEN profile_photo ELSE NULLIF($4, '') END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		params.Name, params.Phone, params.Bio, params.ProfilePhoto, id,
	))
	if err != nil {
		return nil, mapError("failed to update profile", err)
	}
	return u, nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id int64, token *string) error {
	result, err := r.db.ExecContext(ctx, setRefreshTokenSQL, token, id)
	if err != nil {
		return mapError("failed to set refresh token", err)
	}
	return requireRow(result)
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, id int64, current, next string) error {
	result, err := r.db.ExecContext(ctx, rotateRefreshTokenSQL, next, id, current)
	if err != nil {
		return mapError("failed to rotate refresh token", err)
	}
	return requireRow(result)
}

const (
	setRefreshTokenSQL = `UPDATE users SET refresh_token = $1 WHERE id = $2`

	// compare-and-swap: a stale or already rotated token matches no row
	rotateRefreshTokenSQL = `UPDATE users SET refresh_token = $1 WHERE id = $2 AND refresh_token = $3`
)

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

// requireRow reports domain.ErrNotFound when a write matched nothing.
func requireRow(result rowsAffecter) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
