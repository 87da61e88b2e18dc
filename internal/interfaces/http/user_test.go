package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"moneymind/internal/domain"
	"moneymind/internal/domain/user"
)

// MockProfileService implements ProfileService for testing
type MockProfileService struct {
	GetProfileFunc    func(ctx context.Context, userID int64) (*user.User, error)
	UpdateProfileFunc func(ctx context.Context, userID int64, params user.UpdateProfileParams) (*user.User, error)
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID int64) (*user.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID int64, params user.UpdateProfileParams) (*user.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, params)
	}
	return nil, errors.New("not implemented")
}

func strPtr(s string) *string { return &s }

func TestHandleGetProfile(t *testing.T) {
	tests := []struct {
		name           string
		userID         int64
		get            func(ctx context.Context, userID int64) (*user.User, error)
		expectedStatus int
	}{
		{
			name:   "Success",
			userID: 1,
			get: func(ctx context.Context, userID int64) (*user.User, error) {
				return &user.User{ID: userID, Name: "Demo", Email: "demo@example.com", Phone: strPtr("+1234567890")}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unauthenticated",
			userID:         0,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "User vanished",
			userID: 1,
			get: func(ctx context.Context, userID int64) (*user.User, error) {
				return nil, fmt.Errorf("get user: %w", domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "Storage failure",
			userID: 1,
			get: func(ctx context.Context, userID int64) (*user.User, error) {
				return nil, errors.New("timeout")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewUserHandler(&MockProfileService{GetProfileFunc: tt.get})

			rr := httptest.NewRecorder()
			handler.HandleGetProfile(rr, newRequest(t, http.MethodGet, "/api/profile", nil, tt.userID))

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusOK {
				resp := decodeBody[ProfileResponse](t, rr)
				if resp.User.ID != 1 || resp.User.Phone == nil || *resp.User.Phone != "+1234567890" {
					t.Errorf("profile = %+v", resp.User)
				}
			}
		})
	}
}

func TestHandleUpdateProfile(t *testing.T) {
	var got user.UpdateProfileParams
	profiles := &MockProfileService{
		UpdateProfileFunc: func(ctx context.Context, userID int64, params user.UpdateProfileParams) (*user.User, error) {
			got = params
			if params.Name != nil && *params.Name == "   " {
				return nil, user.ErrNameRequired
			}
			return &user.User{ID: userID, Name: "New Name", Email: "demo@example.com"}, nil
		},
	}
	handler := NewUserHandler(profiles)

	rr := httptest.NewRecorder()
	body := map[string]string{"name": "New Name", "bio": ""}
	handler.HandleUpdateProfile(rr, newRequest(t, http.MethodPut, "/api/profile", body, 1))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	if got.Name == nil || *got.Name != "New Name" {
		t.Errorf("Name = %v", got.Name)
	}
	if got.Bio == nil || *got.Bio != "" {
		t.Errorf("Bio = %v, want pointer to empty string", got.Bio)
	}
	if got.Phone != nil {
		t.Errorf("Phone = %v, want nil for an absent field", *got.Phone)
	}

	rr = httptest.NewRecorder()
	handler.HandleUpdateProfile(rr, newRequest(t, http.MethodPut, "/api/profile", map[string]string{"name": "   "}, 1))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("blank name status = %d, want 400", rr.Code)
	}
}
