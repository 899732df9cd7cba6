// Package identities принимает вход пользователей от шлюза идентификации.
package identities

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-wallet/internal/http/request"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/user"
)

// Service создаёт или обновляет учётную запись по внешней личности.
type Service interface {
	Provision(ctx context.Context, identity models.Identity) (*user.Session, error)
}

// Handler обработчик POST /internal/identities.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя через шлюз идентификации
// @Description Создаёт учётную запись при первом входе и выдаёт сессионный токен.
// @Tags identities
// @Accept json
// @Produce json
// @Param identity body models.Identity true "Данные провайдера"
// @Param X-Provisioning-Key header string true "Ключ шлюза"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /internal/identities [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.identities.Provision"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.Identity
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	session, err := h.service.Provision(r.Context(), req)
	if err != nil {
		log.Warn("failed to provision user", slog.String("user_id", req.ID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(session))
}
