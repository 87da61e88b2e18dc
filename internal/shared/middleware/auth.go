package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"moneymind/internal/shared/auth"
	"moneymind/internal/shared/respond"
)

type ContextKey string

const (
	UserIDKey ContextKey = "user_id"
	EmailKey  ContextKey = "email"
	ClaimsKey ContextKey = "claims"
)

// AccessTokenCookie is the cookie carrying the access token.
const AccessTokenCookie = "accessToken"

// Auth requires a valid access token. revocations may be nil.
func Auth(tokens *auth.TokenService, revocations auth.Revocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := AccessToken(r)
			if token == "" {
				respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}

			claims, err := tokens.VerifyAccess(token)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if revocations != nil && claims.ID != "" {
				revoked, err := revocations.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					log.Printf("Error checking token revocation for user %d: %v", claims.UserID, err)
				} else if revoked {
					respond.Error(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessToken reads the access token from the cookie, falling back to a
// Bearer Authorization header. Returns "" when neither is present.
func AccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || scheme != "Bearer" {
		return ""
	}
	return strings.TrimSpace(token)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}

func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return c, ok
}
