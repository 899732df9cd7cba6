package subscriptionwallet

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/subscription-wallet/internal/audit"
	"github.com/magabrotheeeer/subscription-wallet/internal/cache"
	"github.com/magabrotheeeer/subscription-wallet/internal/config"
	"github.com/magabrotheeeer/subscription-wallet/internal/grpc/server"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/handlers/health"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/metrics"
	"github.com/magabrotheeeer/subscription-wallet/internal/notify"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/announcement"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/export"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/product"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/topup"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/user"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthCheckInterval = 10 * time.Second
)

// Cache кеш, общий для сервисов каталога и рейтинга.
type Cache interface {
	user.Cache
	product.Cache
}

// Publisher издатель уведомлений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, ev notify.Event) error
}

// App HTTP-сервер кошелька и его зависимости.
type App struct {
	server  *http.Server
	health  *server.HealthServer
	logger  *slog.Logger
	closers []func() error
}

// New собирает приложение по конфигу.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeStore)

	checks := map[string]health.Pinger{"storage": store}

	var c Cache = cache.Nop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, err
		}
		c = redisCache
		checks["cache"] = redisCache
		app.closers = append(app.closers, redisCache.Close)
	} else {
		logger.Warn("redis address is empty, caching disabled")
	}

	var publisher Publisher = notify.Nop{}
	if cfg.RabbitMQ.URL != "" {
		amqpPublisher, err := notify.NewAMQPPublisher(cfg.RabbitMQ)
		if err != nil {
			app.close()
			return nil, err
		}
		publisher = amqpPublisher
		app.closers = append(app.closers, amqpPublisher.Close)
	} else {
		logger.Warn("rabbitmq url is empty, notifications disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	auditor := audit.New(store, logger, m, cfg.ActivityLogLimit)

	userService := user.New(store, c, auditor, tokens, m, logger, user.Options{
		LeaderboardSize: cfg.LeaderboardSize,
		BootstrapAdmins: cfg.Wallet.IsBootstrapAdmin,
	})

	router := chi.NewRouter()
	RegisterRoutes(router, RouteDeps{
		Logger: logger,
		Services: Services{
			Users:         userService,
			Identities:    userService,
			Products:      product.New(store, c, auditor, logger),
			Topups:        topup.New(store, auditor, publisher, m, logger, cfg.MinTopup),
			Subscriptions: subscription.New(store, auditor, publisher, c, m, logger),
			Announcements: announcement.New(store, auditor, logger),
			ActivityLogs:  auditor,
			Export:        export.New(store),
		},
		Tokens:   tokens,
		Users:    store,
		Metrics:  m,
		Gatherer: reg,
		Health:   checks,
		Wallet:   cfg.Wallet,
		Limit:    cfg.RateLimit,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.AddressGRPC != "" {
		hs, err := server.NewHealthServer(cfg.AddressGRPC, store, healthCheckInterval, logger)
		if err != nil {
			app.close()
			return nil, err
		}
		app.health = hs
	}

	return app, nil
}

// Handler корневой HTTP-обработчик приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает HTTP и gRPC до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	grpcCtx, cancelGRPC := context.WithCancel(ctx)
	defer cancelGRPC()
	if a.health != nil {
		go func() {
			if err := a.health.Run(grpcCtx); err != nil {
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down HTTP server gracefully")
	if err := a.server.Shutdown(timeoutCtx); err != nil && runErr == nil {
		runErr = err
	}
	cancelGRPC()
	a.close()
	return runErr
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to release resource", sl.Err(err))
		}
	}
	a.closers = nil
}
