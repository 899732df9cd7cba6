// Package audit ведёт журнал административных действий.
//
// Запись в журнал выполняется после фиксации бизнес-изменения и никогда не
// откатывает его: ошибка записи логируется и учитывается в метриках, но
// вызывающему не возвращается. Журнал только дополняется.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/metrics"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Действия журнала.
const (
	ActionTopupApproved        = "topup_approved"
	ActionTopupRejected        = "topup_rejected"
	ActionSubscriptionCancel   = "subscription_cancel"
	ActionSubscriptionDates    = "subscription_dates_edit"
	ActionSubscriptionDelete   = "subscription_delete"
	ActionRoleChange           = "role_change"
	ActionBalanceAdjustment    = "balance_adjustment"
	ActionUserBan              = "user_ban"
	ActionUserUnban            = "user_unban"
	ActionUserDelete           = "user_delete"
	ActionProductCreate        = "product_create"
	ActionProductUpdate        = "product_update"
	ActionAnnouncementCreate   = "announcement_create"
	ActionAnnouncementDelete   = "announcement_delete"
	actionSubscriptionStatusFn = "subscription_%s"
)

// Типы целей.
const (
	TargetTopup        = "topup"
	TargetSubscription = "subscription"
	TargetUser         = "user"
	TargetProduct      = "product"
	TargetAnnouncement = "announcement"
)

// SubscriptionStatusAction возвращает действие смены статуса подписки, например subscription_active.
func SubscriptionStatusAction(status models.SubscriptionStatus) string {
	return fmt.Sprintf(actionSubscriptionStatusFn, status)
}

// Store хранилище журнала.
type Store interface {
	CreateActivityLog(ctx context.Context, entry models.ActivityLog) (*models.ActivityLog, error)
	ListActivityLogs(ctx context.Context, limit int) ([]*models.ActivityLog, error)
}

// Entry запись о действии.
type Entry struct {
	ActorID    string
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

// Logger пишет и читает журнал действий.
type Logger struct {
	store    Store
	log      *slog.Logger
	metrics  *metrics.Metrics
	maxLimit int
}

// New создаёт Logger. maxLimit ограничивает размер выдачи List.
func New(store Store, log *slog.Logger, m *metrics.Metrics, maxLimit int) *Logger {
	return &Logger{store: store, log: log, metrics: m, maxLimit: maxLimit}
}

// Record сохраняет запись. Ошибки не возвращаются.
func (l *Logger) Record(ctx context.Context, e Entry) {
	const op = "audit.Record"
	// запись выполняется и после отмены запроса: изменение уже зафиксировано
	ctx = context.WithoutCancel(ctx)
	_, err := l.store.CreateActivityLog(ctx, models.ActivityLog{
		ActorID:    e.ActorID,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Metadata:   e.Metadata,
	})
	if err != nil {
		l.metrics.AuditFailed()
		l.log.Warn("failed to write activity log",
			slog.String("op", op),
			slog.String("action", e.Action),
			slog.String("target_id", e.TargetID),
			sl.Err(err),
		)
	}
}

// List возвращает последние записи, новые первыми. limit вне (0, maxLimit] заменяется на maxLimit.
func (l *Logger) List(ctx context.Context, limit int) ([]*models.ActivityLog, error) {
	const op = "audit.List"
	if limit <= 0 || limit > l.maxLimit {
		limit = l.maxLimit
	}
	logs, err := l.store.ListActivityLogs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return logs, nil
}
