// Package subscriptions обрабатывает покупку подписок и их администрирование.
package subscriptions

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Service операции с подписками.
type Service interface {
	Purchase(ctx context.Context, buyer access.Caller, productID int64, deviceID string) (*models.Subscription, error)
	Activate(ctx context.Context, actor access.Caller, id int64, status models.SubscriptionStatus, comment *string) (*models.Subscription, error)
	Cancel(ctx context.Context, actor access.Caller, id int64) (*models.Subscription, error)
	EditDates(ctx context.Context, actor access.Caller, id int64, start, end *time.Time) (*models.Subscription, error)
	Delete(ctx context.Context, actor access.Caller, id int64) error
	List(ctx context.Context, caller access.Caller) ([]*models.SubscriptionWithProduct, error)
}

// Handler обработчики маршрутов /api/subscriptions.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчики подписок.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}
