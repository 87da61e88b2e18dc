package http

import (
	"context"
	"errors"
	"net/http"

	"moneymind/internal/domain/advisor"
	"moneymind/internal/shared/middleware"
	"moneymind/internal/shared/respond"
)

type AdvisorService interface {
	Advise(ctx context.Context, userID int64, message string) (*advisor.Advice, error)
}

type AIHandler struct {
	advisor AdvisorService
}

func NewAIHandler(advisor AdvisorService) *AIHandler {
	return &AIHandler{advisor: advisor}
}

type ChatRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

type ChatContext struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type ChatResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Context ChatContext `json:"context"`
}

type ChatErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HandleChat answers a question about the caller's finances.
func (h *AIHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.JSON(w, http.StatusBadRequest, ChatErrorResponse{Error: err.Error()})
		return
	}

	advice, err := h.advisor.Advise(r.Context(), userID, req.Message)
	if err != nil {
		h.writeError(w, r, userID, err)
		return
	}

	respond.JSON(w, http.StatusOK, ChatResponse{
		Success: true,
		Message: advice.Message,
		Context: ChatContext{
			Income:   advice.Summary.Income.InexactFloat64(),
			Expenses: advice.Summary.Expenses.InexactFloat64(),
			Balance:  advice.Summary.Balance.InexactFloat64(),
		},
	})
}

func (h *AIHandler) writeError(w http.ResponseWriter, r *http.Request, userID int64, err error) {
	if errors.Is(err, advisor.ErrEmptyMessage) {
		respond.JSON(w, http.StatusBadRequest, ChatErrorResponse{Error: "Message is required"})
		return
	}

	logError(r, "Error generating advice for user %d: %v", userID, err)

	var genErr *advisor.GenerationError
	if !errors.As(err, &genErr) {
		respond.JSON(w, http.StatusInternalServerError, ChatErrorResponse{Error: "Internal server error"})
		return
	}

	status := http.StatusBadGateway
	switch genErr.Kind {
	case advisor.KindConfig:
		status = http.StatusInternalServerError
	case advisor.KindBusy:
		status = http.StatusServiceUnavailable
	}
	respond.JSON(w, status, ChatErrorResponse{Error: genErr.Kind.UserMessage()})
}
