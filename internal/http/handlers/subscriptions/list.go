package subscriptions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-wallet/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
)

// List godoc
// @Summary Подписки вместе с продуктами
// @Description Администратор видит все подписки, пользователь только свои.
// @Tags subscriptions
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/subscriptions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.List"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}

	subs, err := h.service.List(r.Context(), caller)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(subs))
}
