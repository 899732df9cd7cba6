package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-wallet/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/request"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// ChangeRole godoc
// @Summary Сменить роль пользователя
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "ID пользователя"
// @Param role body models.RoleInput true "Новая роль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/users/{id}/role [patch]
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.ChangeRole"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}
	var req models.RoleInput
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	targetID := chi.URLParam(r, "id")
	u, err := h.service.ChangeRole(r.Context(), caller, targetID, req.Role)
	if err != nil {
		log.Warn("failed to change role", slog.String("target_id", targetID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(u))
}

// AdjustBalance godoc
// @Summary Скорректировать баланс
// @Description Сумма со знаком в минимальных единицах. Баланс не может стать отрицательным.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "ID пользователя"
// @Param adjustment body models.BalanceInput true "Корректировка"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/users/{id}/balance [patch]
func (h *Handler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.AdjustBalance"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}
	var req models.BalanceInput
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	targetID := chi.URLParam(r, "id")
	u, err := h.service.AdjustBalance(r.Context(), caller, targetID, req.Amount, req.Reason)
	if err != nil {
		log.Warn("failed to adjust balance", slog.String("target_id", targetID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(u))
}

// SetBanned godoc
// @Summary Заблокировать или разблокировать пользователя
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "ID пользователя"
// @Param ban body models.BanInput true "Флаг блокировки"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/users/{id}/ban [patch]
func (h *Handler) SetBanned(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.SetBanned"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}
	var req models.BanInput
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	if req.Banned == nil {
		log.Warn("banned flag is missing")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("field Banned is a required field"))
		return
	}

	targetID := chi.URLParam(r, "id")
	u, err := h.service.SetBanned(r.Context(), caller, targetID, *req.Banned)
	if err != nil {
		log.Warn("failed to change ban flag", slog.String("target_id", targetID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(u))
}

// Delete godoc
// @Summary Удалить пользователя
// @Description Удаляет пользователя вместе с его подписками, заявками и объявлениями.
// @Tags users
// @Produce json
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /api/users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.Delete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFrom(w, r)
	if !ok {
		return
	}

	targetID := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), caller, targetID); err != nil {
		log.Warn("failed to delete user", slog.String("target_id", targetID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]bool{"success": true}))
}
