package user

import (
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash *string   `json:"-"` // NULL for Google-only accounts
	GoogleID     *string   `json:"-"`
	ProfilePhoto *string   `json:"profilePhoto,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the projection returned by the auth endpoints.
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

type CreateUserParams struct {
	Email        string
	Name         string
	PasswordHash *string
	GoogleID     *string
	ProfilePhoto *string
}

type UpdateProfileParams struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Bio          *string `json:"bio"`
	ProfilePhoto *string `json:"profilePhoto"`
}

// LinkGoogleParams attaches a Google identity to an existing account and
// refreshes the display fields Google reports.
type LinkGoogleParams struct {
	GoogleID     string
	Name         string
	ProfilePhoto *string
}
