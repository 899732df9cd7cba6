// Package topups обрабатывает заявки на пополнение баланса.
package topups

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Service операции с заявками на пополнение.
type Service interface {
	Submit(ctx context.Context, userID string, amount int64, proofURL *string) (*models.Topup, error)
	Resolve(ctx context.Context, actor access.Caller, id int64, decision models.TopupStatus, comment *string) (*models.Topup, error)
	List(ctx context.Context, caller access.Caller) ([]*models.Topup, error)
	Get(ctx context.Context, caller access.Caller, id int64) (*models.Topup, error)
}

// Handler обработчики маршрутов /api/topups.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчики пополнений.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}
