package http

import (
	"net/http"
	"time"

	"moneymind/internal/shared/auth"
	"moneymind/internal/shared/middleware"
)

const (
	refreshTokenCookie = "refreshToken"
	oauthStateCookie   = "oauthState"
	oauthStateTTL      = 10 * time.Minute
)

// CookieConfig controls the attributes of every cookie the API sets.
// Production cookies are Secure and SameSite=None so a frontend on another
// origin can send them.
type CookieConfig struct {
	Production bool
}

func (c CookieConfig) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Production,
		SameSite: http.SameSiteLaxMode,
	}
	if c.Production {
		ck.SameSite = http.SameSiteNoneMode
	}
	switch {
	case maxAge > 0:
		ck.MaxAge = int(maxAge / time.Second)
		ck.Expires = time.Now().Add(maxAge)
	case maxAge < 0:
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
	}
	return ck
}

func (c CookieConfig) setAuthCookies(w http.ResponseWriter, pair auth.TokenPair) {
	http.SetCookie(w, c.cookie(middleware.AccessTokenCookie, pair.AccessToken, auth.AccessTokenTTL))
	http.SetCookie(w, c.cookie(refreshTokenCookie, pair.RefreshToken, auth.RefreshTokenTTL))
}

func (c CookieConfig) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(middleware.AccessTokenCookie, "", -1))
	http.SetCookie(w, c.cookie(refreshTokenCookie, "", -1))
}

func (c CookieConfig) setState(w http.ResponseWriter, state string) {
	http.SetCookie(w, c.cookie(oauthStateCookie, state, oauthStateTTL))
}

func (c CookieConfig) clearState(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(oauthStateCookie, "", -1))
}

func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
