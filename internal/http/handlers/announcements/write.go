package announcements

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
// @Summary Опубликовать объявление
// @Tags announcements
// @Accept json
// @Produce json
// @Param announcement body models.AnnouncementInput true "Объявление"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/announcements [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.announcements.Create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}
	var req models.AnnouncementInput
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	a, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		log.Warn("failed to create announcement", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(a))
}

// Delete godoc
// @Summary Удалить объявление
// @Tags announcements
// @Produce json
// @Param id path int true "ID объявления"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/announcements/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.announcements.Delete"

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
		log.Warn("failed to delete announcement", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]bool{"success": true}))
}
