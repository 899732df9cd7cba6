// Package activitylogs отдаёт журнал административных действий.
package activitylogs

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Service читает журнал.
type Service interface {
	List(ctx context.Context, limit int) ([]*models.ActivityLog, error)
}

// Handler обработчик GET /api/activity-logs.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Журнал действий администраторов
// @Description Последние записи, самые новые первыми.
// @Tags activity-logs
// @Produce json
// @Param limit query int false "Сколько записей вернуть"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/activity-logs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activitylogs.List"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	// 0 означает предел по умолчанию.
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			log.Warn("invalid limit", slog.String("limit", raw))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("limit must be a positive integer"))
			return
		}
		limit = n
	}

	logs, err := h.service.List(r.Context(), limit)
	if err != nil {
		log.Error("failed to list activity logs", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(logs))
}
