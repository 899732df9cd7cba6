// Package health отдаёт состояние сервиса и его зависимостей.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
)

const checkTimeout = 2 * time.Second

// Pinger зависимость, доступность которой можно проверить.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler обработчик GET /health.
type Handler struct {
	log    *slog.Logger
	checks map[string]Pinger
}

// New создаёт обработчик с именованными проверками.
func New(log *slog.Logger, checks map[string]Pinger) *Handler {
	return &Handler{
		log:    log,
		checks: checks,
	}
}

// ServeHTTP godoc
// @Summary Состояние сервиса
// @Tags health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	result := make(map[string]string, len(h.checks))
	healthy := true
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.log.Warn("dependency is unhealthy", slog.String("op", op), slog.String("dependency", name), sl.Err(err))
			result[name] = "down"
			healthy = false
			continue
		}
		result[name] = "up"
	}

	if !healthy {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Response{Status: response.StatusError, Error: "unhealthy", Data: result})
		return
	}
	render.JSON(w, r, response.OKWithData(result))
}
