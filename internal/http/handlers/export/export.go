// Package export отдаёт CSV-выгрузки администратору.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/export"
)

// Service формирует выгрузку.
type Service interface {
	Export(ctx context.Context, kind string) (*export.File, error)
}

// Handler обработчик GET /api/export/{type}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary CSV-выгрузка
// @Tags export
// @Produce text/csv
// @Param type path string true "users, subscriptions или topups"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/export/{type} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.export.ServeHTTP"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	kind := chi.URLParam(r, "type")
	file, err := h.service.Export(r.Context(), kind)
	if err != nil {
		log.Warn("export failed", slog.String("type", kind), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("export generated", slog.String("file", file.Name), slog.Int("bytes", len(file.Data)))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		log.Error("failed to write export", sl.Err(err))
	}
}
