// Package announcements обрабатывает объявления для пользователей.
package announcements

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Service операции с объявлениями.
type Service interface {
	List(ctx context.Context) ([]*models.Announcement, error)
	Create(ctx context.Context, actor access.Caller, in models.AnnouncementInput) (*models.Announcement, error)
	Delete(ctx context.Context, actor access.Caller, id int64) error
}

// Handler обработчики маршрутов /api/announcements.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчики объявлений.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}
