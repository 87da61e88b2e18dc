package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/oauth2"
)

func newTestGoogleProvider(t *testing.T, userInfo http.HandlerFunc) *GoogleOAuthProvider {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("token endpoint: bad form: %v", err)
		}
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"google-access","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", userInfo)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p := NewGoogleOAuthProvider("client-id", "client-secret", "http://localhost/api/auth/google/callback")
	p.config.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	p.userInfoURL = srv.URL + "/userinfo"
	return p
}

func TestGoogleOAuthProvider_AuthURL(t *testing.T) {
	p := NewGoogleOAuthProvider("client-id", "client-secret", "http://localhost/cb")

	raw := p.AuthURL("state-123")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("AuthURL() returned invalid URL: %v", err)
	}
	q := u.Query()
	if q.Get("state") != "state-123" {
		t.Errorf("state = %q, want state-123", q.Get("state"))
	}
	if q.Get("client_id") != "client-id" {
		t.Errorf("client_id = %q, want client-id", q.Get("client_id"))
	}
	if q.Get("redirect_uri") != "http://localhost/cb" {
		t.Errorf("redirect_uri = %q", q.Get("redirect_uri"))
	}
	if q.Get("scope") != "openid email profile" {
		t.Errorf("scope = %q", q.Get("scope"))
	}
}

func TestGoogleOAuthProvider_Exchange(t *testing.T) {
	p := newTestGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer google-access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":      "g-42",
			"email":   "demo@example.com",
			"name":    "Demo User",
			"picture": "https://example.com/p.png",
		})
	})

	info, err := p.Exchange(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Exchange() failed: %v", err)
	}
	if info.ID != "g-42" || info.Email != "demo@example.com" || info.Name != "Demo User" {
		t.Errorf("Exchange() = %+v", info)
	}
	if info.AvatarURL != "https://example.com/p.png" {
		t.Errorf("AvatarURL = %q", info.AvatarURL)
	}
}

func TestGoogleOAuthProvider_ExchangeBadCode(t *testing.T) {
	p := newTestGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("userinfo must not be called when the code exchange fails")
	})

	if _, err := p.Exchange(context.Background(), "bad-code"); err == nil {
		t.Error("Exchange() accepted a rejected code")
	}
}

func TestGoogleOAuthProvider_ExchangeMissingEmail(t *testing.T) {
	p := newTestGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"g-1"}`))
	})

	if _, err := p.Exchange(context.Background(), "good-code"); err == nil {
		t.Error("Exchange() accepted user info without an email")
	}
}
