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
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Resolve godoc
// @Summary Одобрить или отклонить заявку
// @Description Одобрение зачисляет сумму на баланс ровно один раз. Повторное рассмотрение даёт 400.
// @Tags topups
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param decision body models.TopupDecision true "Решение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/topups/{id}/approve [patch]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.topups.Resolve"

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

	var req models.TopupDecision
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	topup, err := h.service.Resolve(r.Context(), caller, id, req.Status, req.AdminComment)
	if err != nil {
		log.Warn("failed to resolve topup", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(topup))
}
