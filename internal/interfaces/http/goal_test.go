package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneymind/internal/domain"
	"moneymind/internal/domain/goal"
)

// MockGoalService implements GoalService for testing
type MockGoalService struct {
	CreateFunc func(ctx context.Context, userID int64, params goal.Params) (*goal.Goal, error)
	ListFunc   func(ctx context.Context, userID int64) ([]*goal.Goal, error)
	UpdateFunc func(ctx context.Context, userID, id int64, params goal.Params) (*goal.Goal, error)
	DeleteFunc func(ctx context.Context, userID, id int64) error
}

func (m *MockGoalService) Create(ctx context.Context, userID int64, params goal.Params) (*goal.Goal, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, params)
	}
	return nil, errors.New("not implemented")
}

func (m *MockGoalService) List(ctx context.Context, userID int64) ([]*goal.Goal, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []*goal.Goal{}, nil
}

func (m *MockGoalService) Update(ctx context.Context, userID, id int64, params goal.Params) (*goal.Goal, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, params)
	}
	return nil, errors.New("not implemented")
}

func (m *MockGoalService) Delete(ctx context.Context, userID, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

func echoGoal(userID, id int64, p goal.Params) *goal.Goal {
	return &goal.Goal{
		ID:            id,
		UserID:        userID,
		Title:         p.Title,
		TargetAmount:  p.TargetAmount,
		CurrentAmount: p.CurrentAmount,
		Deadline:      p.Deadline,
	}
}

func TestHandleListGoals(t *testing.T) {
	service := &MockGoalService{
		ListFunc: func(ctx context.Context, userID int64) ([]*goal.Goal, error) {
			return []*goal.Goal{{
				ID: 1, UserID: userID, Title: "Emergency fund",
				TargetAmount:  decimal.NewFromInt(10000),
				CurrentAmount: decimal.NewFromInt(2500),
				Deadline:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			}}, nil
		},
	}
	handler := NewGoalHandler(service)

	rr := httptest.NewRecorder()
	handler.HandleListGoals(rr, newRequest(t, http.MethodGet, "/api/goals", nil, 4))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	goals := decodeBody[[]GoalResponse](t, rr)
	if len(goals) != 1 {
		t.Fatalf("got %d goals, want 1", len(goals))
	}
	if goals[0].TargetAmount != 10000 || goals[0].CurrentAmount != 2500 || goals[0].Progress != 0.25 {
		t.Errorf("goal = %+v", goals[0])
	}
}

func TestHandleListGoals_EmptyIsArray(t *testing.T) {
	handler := NewGoalHandler(&MockGoalService{})

	rr := httptest.NewRecorder()
	handler.HandleListGoals(rr, newRequest(t, http.MethodGet, "/api/goals", nil, 4))

	if rr.Body.String() != "[]\n" {
		t.Errorf("body = %q, want []", rr.Body.String())
	}
}

func TestHandleCreateGoal(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		create         func(ctx context.Context, userID int64, params goal.Params) (*goal.Goal, error)
		expectedStatus int
		wantCurrent    string
	}{
		{
			name:           "Current amount defaults to zero",
			body:           `{"title":"Laptop","targetAmount":"1500","deadline":"2025-06-30"}`,
			expectedStatus: http.StatusCreated,
			wantCurrent:    "0",
		},
		{
			name:           "With current amount",
			body:           `{"title":"Laptop","targetAmount":1500,"currentAmount":300.25,"deadline":"2025-06-30"}`,
			expectedStatus: http.StatusCreated,
			wantCurrent:    "300.25",
		},
		{
			name:           "Missing target",
			body:           `{"title":"Laptop","deadline":"2025-06-30"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing title",
			body:           `{"targetAmount":1500,"deadline":"2025-06-30"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Target with three decimal places",
			body:           `{"title":"Laptop","targetAmount":"1500.005","deadline":"2025-06-30"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Current amount too large for storage",
			body:           `{"title":"Laptop","targetAmount":1500,"currentAmount":1e15,"deadline":"2025-06-30"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Negative amount rejected by service",
			body: `{"title":"Laptop","targetAmount":-1,"deadline":"2025-06-30"}`,
			create: func(ctx context.Context, userID int64, params goal.Params) (*goal.Goal, error) {
				return nil, goal.ErrNegativeAmount
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got goal.Params
			create := tt.create
			if create == nil {
				create = func(ctx context.Context, userID int64, params goal.Params) (*goal.Goal, error) {
					got = params
					return echoGoal(userID, 1, params), nil
				}
			}
			handler := NewGoalHandler(&MockGoalService{CreateFunc: create})

			rr := httptest.NewRecorder()
			handler.HandleCreateGoal(rr, newRequest(t, http.MethodPost, "/api/goals", tt.body, 4))

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if tt.wantCurrent != "" && !got.CurrentAmount.Equal(decimal.RequireFromString(tt.wantCurrent)) {
				t.Errorf("CurrentAmount = %s, want %s", got.CurrentAmount, tt.wantCurrent)
			}
		})
	}
}

func TestHandleUpdateGoal_NotFound(t *testing.T) {
	service := &MockGoalService{
		UpdateFunc: func(ctx context.Context, userID, id int64, params goal.Params) (*goal.Goal, error) {
			return nil, domain.ErrNotFound
		},
	}
	handler := NewGoalHandler(service)

	req := newRequest(t, http.MethodPut, "/api/goals/8", `{"title":"X","targetAmount":1,"deadline":"2025-01-01"}`, 4)
	req.SetPathValue("id", "8")
	rr := httptest.NewRecorder()
	handler.HandleUpdateGoal(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestHandleDeleteGoal(t *testing.T) {
	var deleted int64
	service := &MockGoalService{
		DeleteFunc: func(ctx context.Context, userID, id int64) error {
			deleted = id
			return nil
		},
	}
	handler := NewGoalHandler(service)

	req := newRequest(t, http.MethodDelete, "/api/goals/12", nil, 4)
	req.SetPathValue("id", "12")
	rr := httptest.NewRecorder()
	handler.HandleDeleteGoal(rr, req)

	if rr.Code != http.StatusOK || deleted != 12 {
		t.Errorf("status = %d deleted = %d, want 200 and 12", rr.Code, deleted)
	}

	req = newRequest(t, http.MethodDelete, "/api/goals/x", nil, 4)
	req.SetPathValue("id", "x")
	rr = httptest.NewRecorder()
	handler.HandleDeleteGoal(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id status = %d, want 400", rr.Code)
	}
}
