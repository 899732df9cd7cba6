// Package products обрабатывает HTTP-запросы каталога продуктов.
package products

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Service операции каталога, нужные обработчикам.
type Service interface {
	List(ctx context.Context) ([]*models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, actor access.Caller, in models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, actor access.Caller, id int64, patch models.ProductPatch) (*models.Product, error)
}

// Handler обработчики маршрутов /api/products.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчики продуктов.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}
