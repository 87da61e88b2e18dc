package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"moneymind/internal/domain"
	"moneymind/internal/domain/transaction"
	"moneymind/internal/shared/middleware"
	"moneymind/internal/shared/respond"
)

type TransactionService interface {
	ListPage(ctx context.Context, q transaction.ListQuery) (*transaction.Page, error)
	Create(ctx context.Context, userID int64, params transaction.Params) (*transaction.Transaction, error)
	Update(ctx context.Context, userID, id int64, params transaction.Params) (*transaction.Transaction, error)
	Delete(ctx context.Context, userID, id int64) error
}

type TransactionHandler struct {
	transactions TransactionService
}

func NewTransactionHandler(transactions TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// TransactionRequest is the body of create and full-replace update. Amount
// may be sent as a JSON number or a numeric string.
type TransactionRequest struct {
	Amount   *decimal.Decimal `json:"amount"`
	Type     string           `json:"type" validate:"required,oneof=income expense"`
	Category string           `json:"category" validate:"required,max=100"`
	Note     string           `json:"note" validate:"max=500"`
	Date     string           `json:"date" validate:"required"`
}

type TransactionResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Amount    float64   `json:"amount"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Note      string    `json:"note"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalPages   int                   `json:"totalPages"`
	CurrentPage  int                   `json:"currentPage"`
	TotalCount   int64                 `json:"totalCount"`
}

func newTransactionResponse(t *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Amount:    t.Amount.InexactFloat64(),
		Type:      string(t.Type),
		Category:  t.Category,
		Note:      t.Note,
		Date:      t.Date,
		CreatedAt: t.CreatedAt,
	}
}

// HandleListTransactions serves one filtered, sorted page of the caller's
// transactions. Unknown or malformed query values fall back to defaults.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	page, err := h.transactions.ListPage(r.Context(), parseListQuery(r, userID))
	if err != nil {
		logError(r, "Error listing transactions for user %d: %v", userID, err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := TransactionListResponse{
		Transactions: make([]TransactionResponse, 0, len(page.Transactions)),
		TotalPages:   page.TotalPages,
		CurrentPage:  page.CurrentPage,
		TotalCount:   page.TotalCount,
	}
	for _, t := range page.Transactions {
		resp.Transactions = append(resp.Transactions, newTransactionResponse(t))
	}
	respond.JSON(w, http.StatusOK, resp)
}

func parseListQuery(r *http.Request, userID int64) transaction.ListQuery {
	q := r.URL.Query()

	// unparsable values become 0; Normalize replaces them and clamps the rest
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	return transaction.ListQuery{
		UserID:    userID,
		Search:    q.Get("search"),
		Filter:    transaction.Filter(q.Get("filter")),
		SortBy:    transaction.SortField(q.Get("sortBy")),
		SortOrder: transaction.SortOrder(q.Get("sortOrder")),
		Page:      page,
		Limit:     limit,
	}.Normalize()
}

func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	params, err := decodeTransaction(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.transactions.Create(r.Context(), userID, params)
	if err != nil {
		writeTransactionError(w, r, "creating transaction", userID, err)
		return
	}

	respond.JSON(w, http.StatusCreated, newTransactionResponse(t))
}

// HandleUpdateTransaction replaces every editable field of one of the
// caller's transactions.
func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	params, err := decodeTransaction(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.transactions.Update(r.Context(), userID, id, params)
	if err != nil {
		writeTransactionError(w, r, "updating transaction", userID, err)
		return
	}

	respond.JSON(w, http.StatusOK, newTransactionResponse(t))
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	if err := h.transactions.Delete(r.Context(), userID, id); err != nil {
		writeTransactionError(w, r, "deleting transaction", userID, err)
		return
	}

	respond.JSON(w, http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (transaction.Params, error) {
	var req TransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return transaction.Params{}, err
	}
	if req.Amount == nil {
		return transaction.Params{}, errors.New("amount is required")
	}
	if err := checkAmount("amount", *req.Amount); err != nil {
		return transaction.Params{}, err
	}
	if !req.Amount.IsPositive() {
		return transaction.Params{}, errors.New("amount must be greater than zero")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return transaction.Params{}, errors.New("date must be YYYY-MM-DD")
	}

	return transaction.Params{
		Amount:   *req.Amount,
		Type:     transaction.Type(req.Type),
		Category: req.Category,
		Note:     req.Note,
		Date:     date,
	}, nil
}

func writeTransactionError(w http.ResponseWriter, r *http.Request, action string, userID int64, err error) {
	switch {
	case errors.Is(err, transaction.ErrInvalidType):
		respond.Error(w, http.StatusBadRequest, "type must be income or expense")
	case domain.KindOf(err) == domain.KindNotFound:
		respond.Error(w, http.StatusNotFound, "Transaction not found")
	default:
		logError(r, "Error %s for user %d: %v", action, userID, err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp, as sent by
// date inputs and by Date.toISOString respectively. Only the date is kept.
func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
