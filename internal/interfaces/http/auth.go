package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"moneymind/internal/domain/session"
	"moneymind/internal/domain/user"
	"moneymind/internal/shared/auth"
	"moneymind/internal/shared/middleware"
	"moneymind/internal/shared/respond"
)

// SessionService is the subset of session.Service the auth endpoints use.
type SessionService interface {
	SignUp(ctx context.Context, params session.SignUpParams) (*session.Result, error)
	Login(ctx context.Context, email, password string) (*session.Result, error)
	LoginWithGoogle(ctx context.Context, info *auth.OAuthUserInfo) (*session.Result, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	Logout(ctx context.Context, refreshToken, accessToken string)
}

type AuthHandler struct {
	sessions    SessionService
	oauth       auth.OAuthProvider
	cookies     CookieConfig
	frontendURL string
}

// NewAuthHandler builds the auth endpoints. oauth may be nil, in which case
// the Google routes respond 503.
func NewAuthHandler(sessions SessionService, oauth auth.OAuthProvider, cookies CookieConfig, frontendURL string) *AuthHandler {
	return &AuthHandler{
		sessions:    sessions,
		oauth:       oauth,
		cookies:     cookies,
		frontendURL: frontendURL,
	}
}

type SignUpRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Message string          `json:"message"`
	User    user.PublicUser `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// HandleSignUp creates a password account and signs it in.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.sessions.SignUp(r.Context(), session.SignUpParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeSessionError(w, r, "signing up", err)
		return
	}

	h.cookies.setAuthCookies(w, res.Tokens)
	respond.JSON(w, http.StatusCreated, AuthResponse{
		Message: "User created successfully",
		User:    res.User.Public(),
	})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeSessionError(w, r, "logging in", err)
		return
	}

	h.cookies.setAuthCookies(w, res.Tokens)
	respond.JSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    res.User.Public(),
	})
}

// HandleRefresh rotates the refresh cookie and issues a new access cookie.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	pair, err := h.sessions.Refresh(r.Context(), cookieValue(r, refreshTokenCookie))
	if err != nil {
		h.writeSessionError(w, r, "refreshing tokens", err)
		return
	}

	h.cookies.setAuthCookies(w, pair)
	respond.JSON(w, http.StatusOK, MessageResponse{Message: "Tokens refreshed successfully"})
}

// HandleLogout always clears both cookies, whatever the state of the tokens.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context(), cookieValue(r, refreshTokenCookie), middleware.AccessToken(r))
	h.cookies.clearAuthCookies(w)
	respond.JSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// HandleGoogleLogin starts the consent flow. The state is kept in a short
// lived cookie and checked on the callback.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		respond.Error(w, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	state := uuid.NewString()
	h.cookies.setState(w, state)
	http.Redirect(w, r, h.oauth.AuthURL(state), http.StatusFound)
}

// HandleGoogleCallback finishes the flow and redirects back to the frontend.
// Every failure lands on the login page with error=auth_failed.
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	failed := h.frontendURL + "/login?error=auth_failed"

	if h.oauth == nil {
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}

	expected := cookieValue(r, oauthStateCookie)
	h.cookies.clearState(w)

	q := r.URL.Query()
	state := q.Get("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		log.Printf("Google callback rejected: state mismatch")
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}
	if e := q.Get("error"); e != "" {
		log.Printf("Google callback returned error: %s", e)
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}
	code := q.Get("code")
	if code == "" {
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}

	info, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		logError(r, "Error exchanging Google code: %v", err)
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}

	res, err := h.sessions.LoginWithGoogle(r.Context(), info)
	if err != nil {
		logError(r, "Error signing in Google user %s: %v", info.ID, err)
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}

	h.cookies.setAuthCookies(w, res.Tokens)
	http.Redirect(w, r, h.frontendURL+"/dashboard", http.StatusFound)
}

func (h *AuthHandler) writeSessionError(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, session.ErrEmailTaken):
		respond.Error(w, http.StatusConflict, "User already exists")
	case errors.Is(err, session.ErrInvalidCredentials):
		respond.Error(w, http.StatusBadRequest, "Invalid email or password")
	case errors.Is(err, session.ErrUnauthenticated):
		respond.Error(w, http.StatusUnauthorized, "No refresh token provided")
	case errors.Is(err, session.ErrInvalidToken):
		respond.Error(w, http.StatusUnauthorized, "Invalid refresh token")
	default:
		logError(r, "Error %s: %v", action, err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
