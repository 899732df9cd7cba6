package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

type UserGetterMock struct {
	mock.Mock
}

func (m *UserGetterMock) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAuth(t *testing.T) {
	maker := jwt.NewJWTMaker("secret", time.Hour)
	validToken, err := maker.GenerateToken("u1", string(models.RoleCustomer))
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		setupMock  func(*UserGetterMock)
		wantStatus int
		wantCaller *access.Caller
	}{
		{
			name:       "нет заголовка",
			authHeader: "",
			setupMock:  func(_ *UserGetterMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "не bearer",
			authHeader: "Basic abc",
			setupMock:  func(_ *UserGetterMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "битый токен",
			authHeader: "Bearer garbage",
			setupMock:  func(_ *UserGetterMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "пользователь удалён",
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserGetterMock) {
				m.On("GetUser", mock.Anything, "u1").Return(nil, models.ErrNotFound)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "ошибка хранилища",
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserGetterMock) {
				m.On("GetUser", mock.Anything, "u1").Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "заблокирован",
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserGetterMock) {
				m.On("GetUser", mock.Anything, "u1").Return(&models.User{ID: "u1", Role: models.RoleCustomer, IsBanned: true}, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "роль берётся из хранилища",
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserGetterMock) {
				m.On("GetUser", mock.Anything, "u1").Return(&models.User{ID: "u1", Role: models.RoleAdmin}, nil)
			},
			wantStatus: http.StatusOK,
			wantCaller: &access.Caller{ID: "u1", Role: models.RoleAdmin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserGetterMock)
			tt.setupMock(users)

			var got *access.Caller
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c, ok := access.CallerFrom(r.Context())
				require.True(t, ok)
				got = &c
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			middlewarectx.Auth(maker, users, newNoopLogger())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCaller, got)
			users.AssertExpectations(t)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.AdminOnly(newNoopLogger())(next)

	tests := []struct {
		name       string
		caller     *access.Caller
		wantStatus int
	}{
		{name: "без вызывающего", caller: nil, wantStatus: http.StatusUnauthorized},
		{name: "покупатель", caller: &access.Caller{ID: "u1", Role: models.RoleCustomer}, wantStatus: http.StatusForbidden},
		{name: "админ", caller: &access.Caller{ID: "a1", Role: models.RoleAdmin}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.caller != nil {
				req = req.WithContext(access.WithCaller(req.Context(), *tt.caller))
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
