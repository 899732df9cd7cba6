package users

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/ledger"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// MockService реализует интерфейс users.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Me(ctx context.Context, caller access.Caller) (*models.User, error) {
	args := m.Called(ctx, caller)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockService) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]*models.User)
	return u, args.Error(1)
}

func (m *MockService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx)
	e, _ := args.Get(0).([]models.LeaderboardEntry)
	return e, args.Error(1)
}

func (m *MockService) ChangeRole(ctx context.Context, actor access.Caller, targetID string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, actor, targetID, role)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockService) AdjustBalance(ctx context.Context, actor access.Caller, targetID string, amount int64, reason string) (*models.User, error) {
	args := m.Called(ctx, actor, targetID, amount, reason)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockService) SetBanned(ctx context.Context, actor access.Caller, targetID string, banned bool) (*models.User, error) {
	args := m.Called(ctx, actor, targetID, banned)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, actor access.Caller, targetID string) error {
	args := m.Called(ctx, actor, targetID)
	return args.Error(0)
}

var admin = access.Caller{ID: "a1", Role: models.RoleAdmin}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(method, url, body string, caller *access.Caller, id string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
	if caller != nil {
		ctx = access.WithCaller(ctx, *caller)
	}
	rctx := chi.NewRouteContext()
	if id != "" {
		rctx.URLParams.Add("id", id)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func TestMe(t *testing.T) {
	caller := access.Caller{ID: "u1", Role: models.RoleCustomer}
	svc := new(MockService)
	svc.On("Me", mock.Anything, caller).Return(&models.User{ID: "u1", Balance: 500}, nil)

	w := httptest.NewRecorder()
	New(newLogger(), svc).Me(w, newRequest(http.MethodGet, "/api/me", "", &caller, ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":500`)
	svc.AssertExpectations(t)

	w = httptest.NewRecorder()
	New(newLogger(), new(MockService)).Me(w, newRequest(http.MethodGet, "/api/me", "", nil, ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLeaderboard(t *testing.T) {
	svc := new(MockService)
	svc.On("Leaderboard", mock.Anything).Return([]models.LeaderboardEntry{{Rank: 1, UserID: "u2", TotalSpent: 70000}}, nil)

	w := httptest.NewRecorder()
	New(newLogger(), svc).Leaderboard(w, newRequest(http.MethodGet, "/api/leaderboard", "", nil, ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rank":1`)
	assert.Contains(t, w.Body.String(), `"totalSpent":70000`)
	svc.AssertExpectations(t)
}

func TestChangeRole(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "повышение до админа",
			id:   "u1",
			body: `{"role":"admin"}`,
			setupMock: func(m *MockService) {
				m.On("ChangeRole", mock.Anything, admin, "u1", models.RoleAdmin).
					Return(&models.User{ID: "u1", Role: models.RoleAdmin}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"role":"admin"`,
		},
		{
			name: "своя роль",
			id:   "a1",
			body: `{"role":"customer"}`,
			setupMock: func(m *MockService) {
				m.On("ChangeRole", mock.Anything, admin, "a1", models.RoleCustomer).
					Return(nil, fmt.Errorf("user.ChangeRole: %w", access.ErrSelfAction))
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"forbidden: action on own account is not allowed"`,
		},
		{
			name:           "неизвестная роль",
			id:             "u1",
			body:           `{"role":"root"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Role must be one of [customer admin]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			New(newLogger(), svc).ChangeRole(w, newRequest(http.MethodPatch, "/api/users/"+tt.id+"/role", tt.body, &admin, tt.id))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestAdjustBalance(t *testing.T) {
	svc := new(MockService)
	svc.On("AdjustBalance", mock.Anything, admin, "u1", int64(-500), "refund").
		Return(&models.User{ID: "u1", Balance: 100}, nil)
	svc.On("AdjustBalance", mock.Anything, admin, "u1", int64(-5000), "").
		Return(nil, fmt.Errorf("user.AdjustBalance: %w", ledger.ErrInvalidAdjustment))

	h := New(newLogger(), svc)

	w := httptest.NewRecorder()
	h.AdjustBalance(w, newRequest(http.MethodPatch, "/api/users/u1/balance", `{"amount":-500,"reason":"refund"}`, &admin, "u1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":100`)

	w = httptest.NewRecorder()
	h.AdjustBalance(w, newRequest(http.MethodPatch, "/api/users/u1/balance", `{"amount":-5000}`, &admin, "u1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `balance cannot go below zero`)

	svc.AssertExpectations(t)
}

func TestSetBanned(t *testing.T) {
	svc := new(MockService)
	svc.On("SetBanned", mock.Anything, admin, "u1", false).Return(&models.User{ID: "u1"}, nil)

	h := New(newLogger(), svc)

	w := httptest.NewRecorder()
	h.SetBanned(w, newRequest(http.MethodPatch, "/api/users/u1/ban", `{"banned":false}`, &admin, "u1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isBanned":false`)

	w = httptest.NewRecorder()
	h.SetBanned(w, newRequest(http.MethodPatch, "/api/users/u1/ban", `{}`, &admin, "u1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `field Banned is a required field`)

	svc.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	svc := new(MockService)
	svc.On("Delete", mock.Anything, admin, "u1").Return(nil)
	svc.On("Delete", mock.Anything, admin, "missing").Return(fmt.Errorf("user.Delete: %w", models.ErrNotFound))

	h := New(newLogger(), svc)

	w := httptest.NewRecorder()
	h.Delete(w, newRequest(http.MethodDelete, "/api/users/u1", "", &admin, "u1"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.Delete(w, newRequest(http.MethodDelete, "/api/users/missing", "", &admin, "missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}
