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

// Create godoc
// @Summary Создать продукт
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.ProductInput true "Новый продукт"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.Create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}

	var req models.ProductInput
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	product, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		log.Error("failed to create product", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("product created", slog.Int64("id", product.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(product))
}
