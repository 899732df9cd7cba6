package subscriptionwallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/subscription-wallet/internal/config"
	"github.com/magabrotheeeer/subscription-wallet/internal/migrations"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/announcement"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/export"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/product"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/topup"
	"github.com/magabrotheeeer/subscription-wallet/internal/services/user"
	"github.com/magabrotheeeer/subscription-wallet/internal/storage"
	"github.com/magabrotheeeer/subscription-wallet/internal/storage/memory"
)

// Store хранилище сущностей, которым пользуются все сервисы.
// Реализуется storage.Storage и memory.Store.
type Store interface {
	user.Repository
	product.Repository
	subscription.Repository
	topup.Repository
	announcement.Repository
	export.Repository
	CreateActivityLog(ctx context.Context, entry models.ActivityLog) (*models.ActivityLog, error)
	ListActivityLogs(ctx context.Context, limit int) ([]*models.ActivityLog, error)
	Ping(ctx context.Context) error
}

// defaultProduct тот же продукт, что засевает миграция 000002.
var defaultProduct = models.Product{
	Name:         "الخطة الذهبية (سنة) | Golden Plan (1 Year)",
	Description:  "وصول كامل لجميع الخدمات | Full access to all services",
	Price:        35000,
	DurationDays: 365,
	IsActive:     true,
}

// openStore открывает хранилище по storage_driver. Возвращает функцию закрытия.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (Store, func() error, error) {
	const op = "app.openStore"
	switch cfg.StorageDriver {
	case config.DriverMemory:
		s := memory.New()
		if _, err := s.CreateProduct(ctx, defaultProduct); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Warn("using in-memory storage, data is lost on restart")
		return s, func() error { return nil }, nil
	default:
		db, err := storage.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := storage.CheckDatabaseReady(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return db, db.Close, nil
	}
}
