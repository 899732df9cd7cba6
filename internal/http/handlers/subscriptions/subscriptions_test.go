package subscriptions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/ledger"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// MockService реализует интерфейс subscriptions.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Purchase(ctx context.Context, buyer access.Caller, productID int64, deviceID string) (*models.Subscription, error) {
	args := m.Called(ctx, buyer, productID, deviceID)
	s, _ := args.Get(0).(*models.Subscription)
	return s, args.Error(1)
}

func (m *MockService) Activate(ctx context.Context, actor access.Caller, id int64, status models.SubscriptionStatus, comment *string) (*models.Subscription, error) {
	args := m.Called(ctx, actor, id, status, comment)
	s, _ := args.Get(0).(*models.Subscription)
	return s, args.Error(1)
}

func (m *MockService) Cancel(ctx context.Context, actor access.Caller, id int64) (*models.Subscription, error) {
	args := m.Called(ctx, actor, id)
	s, _ := args.Get(0).(*models.Subscription)
	return s, args.Error(1)
}

func (m *MockService) EditDates(ctx context.Context, actor access.Caller, id int64, start, end *time.Time) (*models.Subscription, error) {
	args := m.Called(ctx, actor, id, start, end)
	s, _ := args.Get(0).(*models.Subscription)
	return s, args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, actor access.Caller, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockService) List(ctx context.Context, caller access.Caller) ([]*models.SubscriptionWithProduct, error) {
	args := m.Called(ctx, caller)
	s, _ := args.Get(0).([]*models.SubscriptionWithProduct)
	return s, args.Error(1)
}

var (
	customer = access.Caller{ID: "u1", Role: models.RoleCustomer}
	admin    = access.Caller{ID: "a1", Role: models.RoleAdmin}
)

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

func TestPurchase(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная покупка",
			body: `{"productId":1,"deviceId":"tv-1"}`,
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, customer, int64(1), "tv-1").
					Return(&models.Subscription{ID: 10, Status: models.SubscriptionPending}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"status":"pending_activation"`,
		},
		{
			name: "недостаточно средств",
			body: `{"productId":1,"deviceId":"tv-1"}`,
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, customer, int64(1), "tv-1").
					Return(nil, fmt.Errorf("subscription.Purchase: %w", ledger.ErrInsufficientFunds))
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `"error":"insufficient funds`,
		},
		{
			name: "продукт не найден",
			body: `{"productId":99,"deviceId":"tv-1"}`,
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, customer, int64(99), "tv-1").
					Return(nil, fmt.Errorf("subscription.Purchase: %w", models.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"not found"`,
		},
		{
			name:           "нет устройства",
			body:           `{"productId":1}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field DeviceID is a required field`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			New(newLogger(), svc).Purchase(w, newRequest(http.MethodPost, "/api/subscriptions", tt.body, &customer, ""))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestActivate(t *testing.T) {
	comment := "ok"
	svc := new(MockService)
	svc.On("Activate", mock.Anything, admin, int64(4), models.SubscriptionActive, &comment).
		Return(&models.Subscription{ID: 4, Status: models.SubscriptionActive}, nil)
	svc.On("Activate", mock.Anything, admin, int64(5), models.SubscriptionActive, (*string)(nil)).
		Return(nil, fmt.Errorf("subscription.Activate: %w", models.ErrInvalidTransition))

	h := New(newLogger(), svc)

	w := httptest.NewRecorder()
	h.Activate(w, newRequest(http.MethodPatch, "/api/subscriptions/4/activate", `{"status":"active","adminComment":"ok"}`, &admin, "4"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"active"`)

	w = httptest.NewRecorder()
	h.Activate(w, newRequest(http.MethodPatch, "/api/subscriptions/5/activate", `{"status":"active"}`, &admin, "5"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.Activate(w, newRequest(http.MethodPatch, "/api/subscriptions/5/activate", `{"status":"pending_activation"}`, &admin, "5"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `field Status must be one of [active expired]`)

	svc.AssertExpectations(t)
}

func TestCancel(t *testing.T) {
	svc := new(MockService)
	svc.On("Cancel", mock.Anything, admin, int64(4)).
		Return(nil, fmt.Errorf("subscription.Cancel: %w", models.ErrAlreadyExpired))

	w := httptest.NewRecorder()
	New(newLogger(), svc).Cancel(w, newRequest(http.MethodPatch, "/api/subscriptions/4/cancel", "", &admin, "4"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"subscription already expired"`)
	svc.AssertExpectations(t)
}

func TestEditDates(t *testing.T) {
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := new(MockService)
	svc.On("EditDates", mock.Anything, admin, int64(4), (*time.Time)(nil), mock.MatchedBy(func(got *time.Time) bool {
		return got != nil && got.Equal(end)
	})).Return(&models.Subscription{ID: 4, EndDate: &end}, nil)

	w := httptest.NewRecorder()
	New(newLogger(), svc).EditDates(w, newRequest(http.MethodPatch, "/api/subscriptions/4/dates", `{"endDate":"2027-01-01T00:00:00Z"}`, &admin, "4"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"endDate":"2027-01-01T00:00:00Z"`)
	svc.AssertExpectations(t)

	w = httptest.NewRecorder()
	New(newLogger(), new(MockService)).EditDates(w, newRequest(http.MethodPatch, "/api/subscriptions/4/dates", `{"endDate":"tomorrow"}`, &admin, "4"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelete(t *testing.T) {
	svc := new(MockService)
	svc.On("Delete", mock.Anything, admin, int64(4)).Return(nil)
	svc.On("Delete", mock.Anything, admin, int64(5)).Return(fmt.Errorf("subscription.Delete: %w", models.ErrNotFound))

	h := New(newLogger(), svc)

	w := httptest.NewRecorder()
	h.Delete(w, newRequest(http.MethodDelete, "/api/subscriptions/4", "", &admin, "4"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	w = httptest.NewRecorder()
	h.Delete(w, newRequest(http.MethodDelete, "/api/subscriptions/5", "", &admin, "5"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}

func TestListJoinsProduct(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, customer).Return([]*models.SubscriptionWithProduct{{
		Subscription: models.Subscription{ID: 1, UserID: "u1"},
		Product:      models.Product{ID: 1, Name: "Golden Plan"},
	}}, nil)

	w := httptest.NewRecorder()
	New(newLogger(), svc).List(w, newRequest(http.MethodGet, "/api/subscriptions", "", &customer, ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"product":{"id":1,"name":"Golden Plan"`)
	svc.AssertExpectations(t)
}
