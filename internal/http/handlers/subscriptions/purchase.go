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

// Purchase godoc
// @Summary Купить подписку
// @Description Списывает цену продукта с баланса и создаёт подписку в статусе pending_activation.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param purchase body models.PurchaseInput true "Продукт и устройство"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 402 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/subscriptions [post]
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.Purchase"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}

	var req models.PurchaseInput
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	sub, err := h.service.Purchase(r.Context(), caller, req.ProductID, req.DeviceID)
	if err != nil {
		log.Warn("purchase failed", slog.Int64("product_id", req.ProductID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(sub))
}
