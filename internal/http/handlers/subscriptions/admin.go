package subscriptions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-wallet/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/request"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Activate godoc
// @Summary Сменить статус подписки
// @Description Перевод в active проставляет даты по сроку продукта при первой активации.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param id path int true "ID подписки"
// @Param activation body models.ActivationInput true "Новый статус"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/subscriptions/{id}/activate [patch]
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.Activate"

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

	var req models.ActivationInput
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	sub, err := h.service.Activate(r.Context(), caller, id, req.Status, req.AdminComment)
	if err != nil {
		log.Warn("failed to change subscription status", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(sub))
}

// Cancel godoc
// @Summary Отменить подписку
// @Description Переводит подписку в expired. Деньги не возвращаются.
// @Tags subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/subscriptions/{id}/cancel [patch]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.Cancel"

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

	sub, err := h.service.Cancel(r.Context(), caller, id)
	if err != nil {
		log.Warn("failed to cancel subscription", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(sub))
}

// EditDates godoc
// @Summary Изменить даты подписки
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param id path int true "ID подписки"
// @Param dates body models.DatesInput true "Новые даты (RFC 3339)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/subscriptions/{id}/dates [patch]
func (h *Handler) EditDates(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.EditDates"

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

	var req models.DatesInput
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	sub, err := h.service.EditDates(r.Context(), caller, id, req.StartDate, req.EndDate)
	if err != nil {
		log.Warn("failed to edit subscription dates", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(sub))
}

// Delete godoc
// @Summary Удалить подписку
// @Tags subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/subscriptions/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.Delete"

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

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		log.Warn("failed to delete subscription", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]bool{"success": true}))
}
