package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"moneymind/internal/domain"
	"moneymind/internal/domain/goal"
	"moneymind/internal/shared/middleware"
	"moneymind/internal/shared/respond"
)

type GoalService interface {
	Create(ctx context.Context, userID int64, params goal.Params) (*goal.Goal, error)
	List(ctx context.Context, userID int64) ([]*goal.Goal, error)
	Update(ctx context.Context, userID, id int64, params goal.Params) (*goal.Goal, error)
	Delete(ctx context.Context, userID, id int64) error
}

type GoalHandler struct {
	goals GoalService
}

func NewGoalHandler(goals GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

type GoalRequest struct {
	Title         string           `json:"title" validate:"required,max=200"`
	TargetAmount  *decimal.Decimal `json:"targetAmount"`
	CurrentAmount *decimal.Decimal `json:"currentAmount"`
	Deadline      string           `json:"deadline" validate:"required"`
}

type GoalResponse struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	Title         string    `json:"title"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	Progress      float64   `json:"progress"`
	Deadline      time.Time `json:"deadline"`
	CreatedAt     time.Time `json:"createdAt"`
}

func newGoalResponse(g *goal.Goal) GoalResponse {
	return GoalResponse{
		ID:            g.ID,
		UserID:        g.UserID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount.InexactFloat64(),
		CurrentAmount: g.CurrentAmount.InexactFloat64(),
		Progress:      g.Progress().Round(4).InexactFloat64(),
		Deadline:      g.Deadline,
		CreatedAt:     g.CreatedAt,
	}
}

// HandleListGoals returns the caller's goals as a bare array, newest first.
func (h *GoalHandler) HandleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	goals, err := h.goals.List(r.Context(), userID)
	if err != nil {
		logError(r, "Error listing goals for user %d: %v", userID, err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		resp = append(resp, newGoalResponse(g))
	}
	respond.JSON(w, http.StatusOK, resp)
}

func (h *GoalHandler) HandleCreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	params, err := decodeGoal(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.goals.Create(r.Context(), userID, params)
	if err != nil {
		writeGoalError(w, r, "creating goal", userID, err)
		return
	}

	respond.JSON(w, http.StatusCreated, newGoalResponse(g))
}

func (h *GoalHandler) HandleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	params, err := decodeGoal(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.goals.Update(r.Context(), userID, id, params)
	if err != nil {
		writeGoalError(w, r, "updating goal", userID, err)
		return
	}

	respond.JSON(w, http.StatusOK, newGoalResponse(g))
}

func (h *GoalHandler) HandleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	if err := h.goals.Delete(r.Context(), userID, id); err != nil {
		writeGoalError(w, r, "deleting goal", userID, err)
		return
	}

	respond.JSON(w, http.StatusOK, MessageResponse{Message: "Goal deleted successfully"})
}

// decodeGoal reads a goal body. A missing currentAmount means zero.
func decodeGoal(w http.ResponseWriter, r *http.Request) (goal.Params, error) {
	var req GoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return goal.Params{}, err
	}
	if req.TargetAmount == nil {
		return goal.Params{}, errors.New("targetAmount is required")
	}
	if err := checkAmount("targetAmount", *req.TargetAmount); err != nil {
		return goal.Params{}, err
	}

	current := decimal.Zero
	if req.CurrentAmount != nil {
		current = *req.CurrentAmount
		if err := checkAmount("currentAmount", current); err != nil {
			return goal.Params{}, err
		}
	}

	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return goal.Params{}, errors.New("deadline must be YYYY-MM-DD")
	}

	return goal.Params{
		Title:         req.Title,
		TargetAmount:  *req.TargetAmount,
		CurrentAmount: current,
		Deadline:      deadline,
	}, nil
}

func writeGoalError(w http.ResponseWriter, r *http.Request, action string, userID int64, err error) {
	switch {
	case errors.Is(err, goal.ErrTitleRequired), errors.Is(err, goal.ErrNegativeAmount):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case domain.KindOf(err) == domain.KindNotFound:
		respond.Error(w, http.StatusNotFound, "Goal not found")
	default:
		logError(r, "Error %s for user %d: %v", action, userID, err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
