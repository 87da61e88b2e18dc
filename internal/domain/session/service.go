// Package session implements sign-up, sign-in, refresh rotation and logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"moneymind/internal/domain"
	"moneymind/internal/domain/user"
	"moneymind/internal/shared/auth"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid token")
)

// Result is a signed-in user with a freshly issued token pair.
type Result struct {
	User   *user.User
	Tokens auth.TokenPair
}

type SignUpParams struct {
	Name     string
	Email    string
	Password string
}

type Service struct {
	users       user.Repository
	tokens      *auth.TokenService
	revocations auth.Revocations
}

func NewService(users user.Repository, tokens *auth.TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// WithRevocations enables deny-listing of access tokens on logout.
func (s *Service) WithRevocations(r auth.Revocations) *Service {
	s.revocations = r
	return s
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignUp(ctx context.Context, params SignUpParams) (*Result, error) {
	email := NormalizeEmail(params.Email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, user.CreateUserParams{
		Email:        email,
		Name:         strings.TrimSpace(params.Name),
		PasswordHash: &hash,
	})
	if errors.Is(err, domain.ErrConflict) {
		// lost a race with a concurrent sign-up for the same email
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(ctx, u)
}

// dummyHash keeps unknown-email logins as slow as wrong-password ones.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("moneymind-timing-equalizer")
	return h
})

func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		auth.VerifyPassword(dummyHash(), password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// accounts created through Google have no password to check
	if !u.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(*u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, u)
}

// LoginWithGoogle resolves the Google identity to an account: by Google id,
// then by email (linking the Google id), else a new password-less account.
func (s *Service) LoginWithGoogle(ctx context.Context, info *auth.OAuthUserInfo) (*Result, error) {
	u, err := s.users.GetByGoogleID(ctx, info.ID)
	if err == nil {
		return s.issue(ctx, u)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google id: %w", err)
	}

	email := NormalizeEmail(info.Email)
	var photo *string
	if info.AvatarURL != "" {
		photo = &info.AvatarURL
	}

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		name := info.Name
		if name == "" {
			name = existing.Name
		}
		u, err = s.users.LinkGoogle(ctx, existing.ID, user.LinkGoogleParams{
			GoogleID:     info.ID,
			Name:         name,
			ProfilePhoto: photo,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
	case errors.Is(err, domain.ErrNotFound):
		name := info.Name
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		googleID := info.ID
		u, err = s.users.Create(ctx, user.CreateUserParams{
			Email:        email,
			Name:         name,
			GoogleID:     &googleID,
			ProfilePhoto: photo,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create google user: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	return s.issue(ctx, u)
}

// Refresh rotates the refresh token. The presented token must verify and
// still be the stored one; of two concurrent calls with the same token at
// most one succeeds.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	if refreshToken == "" {
		return auth.TokenPair{}, ErrUnauthenticated
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return auth.TokenPair{}, ErrInvalidToken
	}

	pair, err := s.tokens.IssuePair(claims.UserID, claims.Email)
	if err != nil {
		return auth.TokenPair{}, err
	}

	err = s.users.RotateRefreshToken(ctx, claims.UserID, refreshToken, pair.RefreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		return auth.TokenPair{}, ErrInvalidToken
	}
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return pair, nil
}

// Logout is best effort and never fails: it clears the stored refresh token
// when the presented one verifies and deny-lists the access token when a
// revocation store is configured.
func (s *Service) Logout(ctx context.Context, refreshToken, accessToken string) {
	if refreshToken != "" {
		if claims, err := s.tokens.VerifyRefresh(refreshToken); err == nil {
			if err := s.users.SetRefreshToken(ctx, claims.UserID, nil); err != nil {
				log.Printf("Error clearing refresh token for user %d: %v", claims.UserID, err)
			}
		}
	}

	if s.revocations == nil || accessToken == "" {
		return
	}
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil || claims.ID == "" {
		return
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
		log.Printf("Error revoking access token for user %d: %v", claims.UserID, err)
	}
}

func (s *Service) issue(ctx context.Context, u *user.User) (*Result, error) {
	pair, err := s.tokens.IssuePair(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, u.ID, &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return &Result{User: u, Tokens: pair}, nil
}
