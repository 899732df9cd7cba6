// Package users обрабатывает профиль, рейтинг и администрирование пользователей.
package users

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Service операции над пользователями.
type Service interface {
	Me(ctx context.Context, caller access.Caller) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	ChangeRole(ctx context.Context, actor access.Caller, targetID string, role models.Role) (*models.User, error)
	AdjustBalance(ctx context.Context, actor access.Caller, targetID string, amount int64, reason string) (*models.User, error)
	SetBanned(ctx context.Context, actor access.Caller, targetID string, banned bool) (*models.User, error)
	Delete(ctx context.Context, actor access.Caller, targetID string) error
}

// Handler обработчики маршрутов /api/me, /api/users и /api/leaderboard.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчики пользователей.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}
