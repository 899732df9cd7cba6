package identities

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/user"
)

// MockService реализует интерфейс identities.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Provision(ctx context.Context, identity models.Identity) (*user.Session, error) {
	args := m.Called(ctx, identity)
	s, _ := args.Get(0).(*user.Session)
	return s, args.Error(1)
}

func TestProvision(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	identity := models.Identity{ID: "1125880459579109407", Username: "neo", DisplayName: "Neo"}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "выдан токен",
			body: `{"id":"1125880459579109407","username":"neo","displayName":"Neo"}`,
			setupMock: func(m *MockService) {
				m.On("Provision", mock.Anything, identity).
					Return(&user.Session{User: &models.User{ID: identity.ID, Role: models.RoleAdmin}, Token: "jwt"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"jwt"`,
		},
		{
			name: "заблокирован",
			body: `{"id":"1125880459579109407","username":"neo","displayName":"Neo"}`,
			setupMock: func(m *MockService) {
				m.On("Provision", mock.Anything, identity).
					Return(nil, fmt.Errorf("user.Provision: %w", access.ErrBanned))
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"account banned"`,
		},
		{
			name:           "нет идентификатора",
			body:           `{"username":"neo"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field ID is a required field`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/internal/identities", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
