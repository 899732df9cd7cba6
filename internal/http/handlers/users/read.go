package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-wallet/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
)

// Me godoc
// @Summary Текущий пользователь
// @Tags users
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.Me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}

	u, err := h.service.Me(r.Context(), caller)
	if err != nil {
		log.Error("failed to load current user", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(u))
}

// List godoc
// @Summary Все пользователи
// @Tags users
// @Produce json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.List"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(users))
}

// Leaderboard godoc
// @Summary Рейтинг покупателей
// @Description Топ пользователей по сумме покупок. Пользователи без покупок не попадают.
// @Tags users
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/leaderboard [get]
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.Leaderboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	entries, err := h.service.Leaderboard(r.Context())
	if err != nil {
		log.Error("failed to build leaderboard", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(entries))
}
