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

// Create godoc
// @Summary Подать заявку на пополнение
// @Description Сумма в минимальных единицах валюты. Заявка создаётся в статусе pending.
// @Tags topups
// @Accept json
// @Produce json
// @Param topup body models.TopupInput true "Заявка"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/topups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.topups.Create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}

	var req models.TopupInput
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	topup, err := h.service.Submit(r.Context(), caller.ID, req.Amount, req.ProofURL)
	if err != nil {
		log.Warn("failed to submit topup", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(topup))
}
