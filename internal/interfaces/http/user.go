package http

import (
	"context"
	"errors"
	"net/http"

	"moneymind/internal/domain"
	"moneymind/internal/domain/user"
	"moneymind/internal/shared/middleware"
	"moneymind/internal/shared/respond"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*user.User, error)
	UpdateProfile(ctx context.Context, userID int64, params user.UpdateProfileParams) (*user.User, error)
}

type UserHandler struct {
	profiles ProfileService
}

func NewUserHandler(profiles ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

type ProfileResponse struct {
	User Profile `json:"user"`
}

// Profile is the user as shown on the profile page.
type Profile struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	Bio          *string `json:"bio"`
	ProfilePhoto *string `json:"profilePhoto"`
}

func newProfile(u *user.User) Profile {
	return Profile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Bio:          u.Bio,
		ProfilePhoto: u.ProfilePhoto,
	}
}

type UpdateProfileRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,max=32"`
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePhoto *string `json:"profilePhoto" validate:"omitempty,max=2048"`
}

func (h *UserHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	u, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		logError(r, "Error getting profile for user %d: %v", userID, err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, ProfileResponse{User: newProfile(u)})
}

// HandleUpdateProfile applies only the fields present in the body. An empty
// string clears phone, bio or photo.
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.profiles.UpdateProfile(r.Context(), userID, user.UpdateProfileParams{
		Name:         req.Name,
		Phone:        req.Phone,
		Bio:          req.Bio,
		ProfilePhoto: req.ProfilePhoto,
	})
	switch {
	case errors.Is(err, user.ErrNameRequired):
		respond.Error(w, http.StatusBadRequest, "Name cannot be empty")
		return
	case domain.KindOf(err) == domain.KindNotFound:
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		logError(r, "Error updating profile for user %d: %v", userID, err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, ProfileResponse{User: newProfile(u)})
}
