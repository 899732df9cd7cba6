package topups

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-wallet/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/request"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
)

// List godoc
// @Summary Заявки на пополнение
// @Description Администратор видит все заявки, пользователь только свои.
// @Tags topups
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/topups [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.topups.List"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}

	topups, err := h.service.List(r.Context(), caller)
	if err != nil {
		log.Error("failed to list topups", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(topups))
}

// Get godoc
// @Summary Заявка на пополнение по id
// @Tags topups
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/topups/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.topups.Get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}

	topup, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		log.Warn("failed to get topup", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(topup))
}
