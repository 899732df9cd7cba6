// Package subscriptionwallet собирает приложение: хранилище, кеш, брокер,
// сервисы, HTTP-маршруты и gRPC health-сервер.
package subscriptionwallet

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация описания API для /docs/*.
	_ "github.com/magabrotheeeer/subscription-wallet/docs"

	"github.com/magabrotheeeer/subscription-wallet/internal/config"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/handlers/activitylogs"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/handlers/announcements"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/handlers/export"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/handlers/health"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/handlers/identities"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/handlers/products"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/handlers/subscriptions"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/handlers/topups"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/handlers/users"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-wallet/internal/metrics"
)

// Services сервисы, которые обслуживают маршруты.
type Services struct {
	Users         users.Service
	Identities    identities.Service
	Products      products.Service
	Topups        topups.Service
	Subscriptions subscriptions.Service
	Announcements announcements.Service
	ActivityLogs  activitylogs.Service
	Export        export.Service
}

// RouteDeps зависимости маршрутизатора.
type RouteDeps struct {
	Logger   *slog.Logger
	Services Services
	Tokens   middlewarectx.TokenParser
	Users    middlewarectx.UserGetter
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Health   map[string]health.Pinger
	Wallet   config.Wallet
	Limit    config.RateLimit
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d RouteDeps) {
	logger := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics(d.Metrics),
	)

	productsHandler := products.New(logger, d.Services.Products)
	topupsHandler := topups.New(logger, d.Services.Topups)
	subscriptionsHandler := subscriptions.New(logger, d.Services.Subscriptions)
	usersHandler := users.New(logger, d.Services.Users)
	announcementsHandler := announcements.New(logger, d.Services.Announcements)

	auth := middlewarectx.Auth(d.Tokens, d.Users, logger)
	adminOnly := middlewarectx.AdminOnly(logger)
	rateLimit := middlewarectx.RateLimit(logger, d.Limit.RPS, d.Limit.Burst)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/products", productsHandler.List)
		r.Get("/products/{id}", productsHandler.Get)
		r.Get("/leaderboard", usersHandler.Leaderboard)
		r.Get("/announcements", announcementsHandler.List)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Get("/me", usersHandler.Me)
			r.Get("/topups", topupsHandler.List)
			r.Get("/topups/{id}", topupsHandler.Get)
			r.Get("/subscriptions", subscriptionsHandler.List)

			r.With(rateLimit).Post("/topups", topupsHandler.Create)
			r.With(rateLimit).Post("/subscriptions", subscriptionsHandler.Purchase)

			// Администрирование
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Post("/products", productsHandler.Create)
				r.Patch("/products/{id}", productsHandler.Update)

				r.Patch("/topups/{id}/approve", topupsHandler.Resolve)

				r.Patch("/subscriptions/{id}/activate", subscriptionsHandler.Activate)
				r.Patch("/subscriptions/{id}/cancel", subscriptionsHandler.Cancel)
				r.Patch("/subscriptions/{id}/dates", subscriptionsHandler.EditDates)
				r.Delete("/subscriptions/{id}", subscriptionsHandler.Delete)

				r.Get("/users", usersHandler.List)
				r.Patch("/users/{id}/role", usersHandler.ChangeRole)
				r.Patch("/users/{id}/balance", usersHandler.AdjustBalance)
				r.Patch("/users/{id}/ban", usersHandler.SetBanned)
				r.Delete("/users/{id}", usersHandler.Delete)

				r.Post("/announcements", announcementsHandler.Create)
				r.Delete("/announcements/{id}", announcementsHandler.Delete)

				r.Get("/activity-logs", activitylogs.New(logger, d.Services.ActivityLogs).ServeHTTP)
				r.Get("/export/{type}", export.New(logger, d.Services.Export).ServeHTTP)
			})
		})
	})

	// Вход через шлюз идентификации
	r.With(middlewarectx.ProvisioningKey(d.Wallet.ProvisioningKeyHash, logger)).
		Post("/internal/identities", identities.New(logger, d.Services.Identities).ServeHTTP)

	r.Get("/health", health.New(logger, d.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
