package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"moneymind/internal/domain"
	"moneymind/internal/domain/user"
	"moneymind/internal/shared/auth"
)

// memoryUsers is an in-memory user.Repository with the same conditional
// rotation semantics as the Postgres one.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*user.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[int64]*user.User)}
}

func (m *memoryUsers) Create(ctx context.Context, p user.CreateUserParams) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == p.Email {
			return nil, domain.ErrConflict
		}
	}
	m.nextID++
	u := &user.User{
		ID:           m.nextID,
		Email:        p.Email,
		Name:         p.Name,
		PasswordHash: p.PasswordHash,
		GoogleID:     p.GoogleID,
		ProfilePhoto: p.ProfilePhoto,
	}
	m.byID[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memoryUsers) find(match func(*user.User) bool) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.ID == id })
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.Email == email })
}

func (m *memoryUsers) GetByGoogleID(ctx context.Context, googleID string) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (m *memoryUsers) LinkGoogle(ctx context.Context, id int64, p user.LinkGoogleParams) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	gid := p.GoogleID
	u.GoogleID = &gid
	u.Name = p.Name
	if p.ProfilePhoto != nil {
		u.ProfilePhoto = p.ProfilePhoto
	}
	cp := *u
	return &cp, nil
}

func (m *memoryUsers) UpdateProfile(ctx context.Context, id int64, p user.UpdateProfileParams) (*user.User, error) {
	return nil, errors.New("not implemented")
}

func (m *memoryUsers) SetRefreshToken(ctx context.Context, id int64, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (m *memoryUsers) RotateRefreshToken(ctx context.Context, id int64, current, next string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != current {
		return domain.ErrNotFound
	}
	u.RefreshToken = &next
	return nil
}

func (m *memoryUsers) storedRefresh(id int64) *string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].RefreshToken
}

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (r *memoryRevocations) Revoke(ctx context.Context, id string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revoked == nil {
		r.revoked = make(map[string]time.Time)
	}
	r.revoked[id] = exp
	return nil
}

func (r *memoryRevocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[id]
	return ok, nil
}

func newTestService() (*Service, *memoryUsers) {
	users := newMemoryUsers()
	tokens := auth.NewTokenService("test-secret", auth.AccessTokenTTL, auth.RefreshTokenTTL)
	return NewService(users, tokens), users
}

func TestService_SignUp(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	res, err := svc.SignUp(ctx, SignUpParams{Name: "Asha", Email: "  Asha@Example.com ", Password: "secret123"})
	if err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}
	if res.User.Email != "asha@example.com" {
		t.Errorf("email = %q, want normalized", res.User.Email)
	}
	if res.User.PasswordHash == nil || *res.User.PasswordHash == "secret123" {
		t.Error("password stored in plaintext")
	}
	if err := auth.VerifyPassword(*res.User.PasswordHash, "secret123"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	stored := users.storedRefresh(res.User.ID)
	if stored == nil || *stored != res.Tokens.RefreshToken {
		t.Error("issued refresh token was not persisted")
	}

	_, err = svc.SignUp(ctx, SignUpParams{Name: "Other", Email: "asha@example.com", Password: "x"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second SignUp() error = %v, want ErrEmailTaken", err)
	}
}

// failingUsers overrides single operations of memoryUsers with an error.
type failingUsers struct {
	*memoryUsers
	createErr     error
	setRefreshErr error
}

func (f *failingUsers) Create(ctx context.Context, p user.CreateUserParams) (*user.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.memoryUsers.Create(ctx, p)
}

func (f *failingUsers) SetRefreshToken(ctx context.Context, id int64, token *string) error {
	if f.setRefreshErr != nil {
		return f.setRefreshErr
	}
	return f.memoryUsers.SetRefreshToken(ctx, id, token)
}

func TestService_SignUpRaceConflict(t *testing.T) {
	users := &failingUsers{memoryUsers: newMemoryUsers(), createErr: domain.ErrConflict}
	svc := NewService(users, auth.NewTokenService("s", auth.AccessTokenTTL, auth.RefreshTokenTTL))

	_, err := svc.SignUp(context.Background(), SignUpParams{Name: "A", Email: "a@example.com", Password: "pw"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("SignUp() error = %v, want ErrEmailTaken", err)
	}
}

func TestService_Login(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	signed, err := svc.SignUp(ctx, SignUpParams{Name: "Asha", Email: "asha@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}
	googleID := "g-1"
	if _, err := users.Create(ctx, user.CreateUserParams{Email: "oauth@example.com", Name: "O", GoogleID: &googleID}); err != nil {
		t.Fatalf("seed oauth user: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"correct", "asha@example.com", "secret123", nil},
		{"email case ignored", "ASHA@example.com", "secret123", nil},
		{"wrong password", "asha@example.com", "nope", ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", "secret123", ErrInvalidCredentials},
		{"oauth only account", "oauth@example.com", "", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := users.storedRefresh(signed.User.ID)
			res, err := svc.Login(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if res != nil {
					t.Error("failed Login() returned tokens")
				}
				if after := users.storedRefresh(signed.User.ID); after != before {
					t.Error("failed Login() changed the stored refresh token")
				}
				return
			}
			if res.Tokens.AccessToken == "" {
				t.Error("Login() returned no access token")
			}
		})
	}
}

func TestService_LoginWithGoogle(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	// new identity creates a password-less account
	res, err := svc.LoginWithGoogle(ctx, &auth.OAuthUserInfo{ID: "g-9", Email: "new@example.com", Name: "", AvatarURL: "https://p"})
	if err != nil {
		t.Fatalf("LoginWithGoogle() failed: %v", err)
	}
	if res.User.HasPassword() {
		t.Error("google account got a password")
	}
	if res.User.Name != "new" {
		t.Errorf("name = %q, want email local part", res.User.Name)
	}

	// same google id resolves to the same account
	again, err := svc.LoginWithGoogle(ctx, &auth.OAuthUserInfo{ID: "g-9", Email: "new@example.com"})
	if err != nil {
		t.Fatalf("second LoginWithGoogle() failed: %v", err)
	}
	if again.User.ID != res.User.ID {
		t.Errorf("second login user = %d, want %d", again.User.ID, res.User.ID)
	}

	// existing password account gets linked
	pw, err := svc.SignUp(ctx, SignUpParams{Name: "Old Name", Email: "link@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}
	linked, err := svc.LoginWithGoogle(ctx, &auth.OAuthUserInfo{ID: "g-10", Email: "Link@example.com", Name: "New Name"})
	if err != nil {
		t.Fatalf("linking LoginWithGoogle() failed: %v", err)
	}
	if linked.User.ID != pw.User.ID {
		t.Errorf("linked user = %d, want %d", linked.User.ID, pw.User.ID)
	}
	if linked.User.Name != "New Name" {
		t.Errorf("linked name = %q, want refreshed from google", linked.User.Name)
	}
	stored, _ := users.GetByID(ctx, pw.User.ID)
	if stored.GoogleID == nil || *stored.GoogleID != "g-10" {
		t.Error("google id was not linked")
	}
	if !stored.HasPassword() {
		t.Error("linking dropped the password")
	}
}

func TestService_RefreshRotation(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	res, err := svc.SignUp(ctx, SignUpParams{Name: "A", Email: "a@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}
	first := res.Tokens.RefreshToken

	pair, err := svc.Refresh(ctx, first)
	if err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}
	if pair.RefreshToken == first {
		t.Error("Refresh() did not rotate the refresh token")
	}
	if stored := users.storedRefresh(res.User.ID); stored == nil || *stored != pair.RefreshToken {
		t.Error("rotated refresh token was not persisted")
	}

	// the previous token is now stale
	if _, err := svc.Refresh(ctx, first); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh(stale) error = %v, want ErrInvalidToken", err)
	}
	// and the access token is not a refresh token
	if _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh(access) error = %v, want ErrInvalidToken", err)
	}
}

func TestService_RefreshErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Refresh(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Refresh(\"\") error = %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.Refresh(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh(garbage) error = %v, want ErrInvalidToken", err)
	}

	other := auth.NewTokenService("other-secret", auth.AccessTokenTTL, auth.RefreshTokenTTL)
	forged, _ := other.IssuePair(1, "a@example.com")
	if _, err := svc.Refresh(ctx, forged.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh(forged) error = %v, want ErrInvalidToken", err)
	}
}

func TestService_ConcurrentRefreshOneWinner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	res, err := svc.SignUp(ctx, SignUpParams{Name: "A", Email: "a@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Refresh(ctx, res.Tokens.RefreshToken); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Refresh() unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("%d concurrent refreshes succeeded, want exactly 1", wins)
	}
}

func TestService_LogoutInvalidatesRefresh(t *testing.T) {
	users := newMemoryUsers()
	tokens := auth.NewTokenService("test-secret", auth.AccessTokenTTL, auth.RefreshTokenTTL)
	revocations := &memoryRevocations{}
	svc := NewService(users, tokens).WithRevocations(revocations)
	ctx := context.Background()

	res, err := svc.SignUp(ctx, SignUpParams{Name: "A", Email: "a@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}

	svc.Logout(ctx, res.Tokens.RefreshToken, res.Tokens.AccessToken)

	if users.storedRefresh(res.User.ID) != nil {
		t.Error("Logout() did not clear the stored refresh token")
	}
	if _, err := svc.Refresh(ctx, res.Tokens.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh() after logout error = %v, want ErrInvalidToken", err)
	}

	claims, _ := tokens.Verify(res.Tokens.AccessToken)
	if revoked, _ := revocations.IsRevoked(ctx, claims.ID); !revoked {
		t.Error("Logout() did not revoke the access token")
	}
}

func TestService_LogoutIgnoresSwappedTokens(t *testing.T) {
	users := newMemoryUsers()
	tokens := auth.NewTokenService("test-secret", auth.AccessTokenTTL, auth.RefreshTokenTTL)
	revocations := &memoryRevocations{}
	svc := NewService(users, tokens).WithRevocations(revocations)
	ctx := context.Background()

	res, err := svc.SignUp(ctx, SignUpParams{Name: "A", Email: "a@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}

	// access token in the refresh slot and vice versa
	svc.Logout(ctx, res.Tokens.AccessToken, res.Tokens.RefreshToken)

	if users.storedRefresh(res.User.ID) == nil {
		t.Error("Logout() cleared the refresh token using an access token")
	}
	refreshClaims, _ := tokens.Verify(res.Tokens.RefreshToken)
	if revoked, _ := revocations.IsRevoked(ctx, refreshClaims.ID); revoked {
		t.Error("Logout() deny-listed a refresh token as if it were an access token")
	}
}

func TestService_LogoutIsBestEffort(t *testing.T) {
	users := &failingUsers{memoryUsers: newMemoryUsers(), setRefreshErr: errors.New("db down")}
	tokens := auth.NewTokenService("test-secret", auth.AccessTokenTTL, auth.RefreshTokenTTL)
	svc := NewService(users, tokens)
	pair, _ := tokens.IssuePair(1, "a@example.com")

	// must not panic with a failing store, garbage tokens or nothing at all
	svc.Logout(context.Background(), pair.RefreshToken, pair.AccessToken)
	svc.Logout(context.Background(), "garbage", "garbage")
	svc.Logout(context.Background(), "", "")
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  MoneyMind@Gmail.COM "); got != strings.ToLower("moneymind@gmail.com") {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}
