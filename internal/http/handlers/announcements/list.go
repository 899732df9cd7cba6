package announcements

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
)

// List godoc
// @Summary Объявления
// @Tags announcements
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/announcements [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.announcements.List"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list announcements", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(items))
}
