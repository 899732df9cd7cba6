// Package middlewarectx содержит HTTP middleware аутентификации и ограничения доступа.
//
// Auth проверяет bearer-токен, загружает актуальную учётную запись и кладёт
// access.Caller в контекст запроса. Роль и блокировка берутся из хранилища,
// а не из токена, поэтому смена роли или бан действуют сразу.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// TokenParser проверяет сессионный токен.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// UserGetter загружает учётную запись.
type UserGetter interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Auth возвращает middleware, который требует валидный токен и незаблокированного пользователя.
func Auth(tokens TokenParser, users UserGetter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Auth"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}

			claims, err := tokens.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			u, err := users.GetUser(r.Context(), claims.UserID())
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					log.Warn("token subject not found", slog.String("user_id", claims.UserID()))
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("unauthorized"))
					return
				}
				log.Error("failed to load user", sl.Err(err))
				response.Fail(w, r, err)
				return
			}

			caller := access.FromUser(*u)
			if err := access.RequireActive(caller); err != nil {
				log.Warn("banned user rejected", slog.String("user_id", caller.ID))
				response.Fail(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(access.WithCaller(r.Context(), caller)))
		})
	}
}

// AdminOnly пропускает только администраторов. Ставится после Auth.
func AdminOnly(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := access.CallerFrom(r.Context())
			if !ok {
				response.Fail(w, r, access.ErrUnauthorized)
				return
			}
			if err := access.RequireRole(caller, models.RoleAdmin); err != nil {
				log.Warn("admin route denied",
					slog.String("user_id", caller.ID),
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("admin only"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CallerFrom достаёт вызывающего из контекста запроса и пишет 401, если его нет.
func CallerFrom(w http.ResponseWriter, r *http.Request) (access.Caller, bool) {
	caller, ok := access.CallerFrom(r.Context())
	if !ok || caller.ID == "" {
		response.Fail(w, r, access.ErrUnauthorized)
		return access.Caller{}, false
	}
	return caller, true
}
