package products

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

// Update godoc
// @Summary Частично изменить продукт
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "ID продукта"
// @Param patch body models.ProductPatch true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/products/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.Update"

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

	var req models.ProductPatch
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	product, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		log.Error("failed to update product", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("product updated", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(product))
}
