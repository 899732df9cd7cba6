// Package subscription реализует жизненный цикл подписки: покупку с баланса,
// активацию, отмену, ручную правку дат и удаление.
//
// Переходы: pending_activation -> active -> expired, pending_activation -> expired.
// Из expired выхода нет.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/audit"
	"github.com/magabrotheeeer/subscription-wallet/internal/cache"
	"github.com/magabrotheeeer/subscription-wallet/internal/ledger"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/metrics"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
	"github.com/magabrotheeeer/subscription-wallet/internal/notify"
)

// CancelComment комментарий, который ставится при отмене подписки.
const CancelComment = "Cancelled by admin"

// Метки исхода покупки.
const (
	resultInsufficient = "insufficient_funds"
	resultInactive     = "product_inactive"
)

// Repository хранилище подписок.
type Repository interface {
	ListSubscriptions(ctx context.Context, userID string) ([]*models.SubscriptionWithProduct, error)
	GetSubscription(ctx context.Context, id int64) (*models.Subscription, error)
	Purchase(ctx context.Context, userID string, productID int64, deviceID string,
		fn func(u *models.User, p models.Product) error) (*models.Subscription, *models.User, error)
	UpdateSubscription(ctx context.Context, id int64,
		fn func(sub *models.Subscription, p models.Product) error) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, id int64) (*models.Subscription, error)
}

// Auditor журнал действий.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// Notifier издатель уведомлений.
type Notifier interface {
	Publish(ctx context.Context, routingKey string, ev notify.Event) error
}

// Cache инвалидация кеша рейтинга.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Service бизнес-логика подписок.
type Service struct {
	repo     Repository
	audit    Auditor
	notifier Notifier
	cache    Cache
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time
}

// New создаёт Service.
func New(repo Repository, auditor Auditor, notifier Notifier, c Cache, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		audit:    auditor,
		notifier: notifier,
		cache:    c,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Purchase списывает цену продукта с баланса покупателя и создаёт подписку
// в статусе pending_activation. Списание и создание атомарны.
func (s *Service) Purchase(ctx context.Context, buyer access.Caller, productID int64, deviceID string) (*models.Subscription, error) {
	const op = "subscription.Purchase"
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, fmt.Errorf("%s: %w: deviceId is required", op, models.ErrInvalidInput)
	}

	sub, u, err := s.repo.Purchase(ctx, buyer.ID, productID, deviceID, func(u *models.User, p models.Product) error {
		if !p.IsActive {
			return models.ErrProductInactive
		}
		updated, err := ledger.Debit(*u, p.Price, true)
		s.metrics.LedgerOp(ledger.KindPurchase.String(), err)
		if err != nil {
			return err
		}
		*u = updated
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds):
			s.metrics.Purchase(resultInsufficient)
		case errors.Is(err, models.ErrProductInactive):
			s.metrics.Purchase(resultInactive)
		default:
			s.metrics.Purchase(metrics.ResultError)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Purchase(metrics.ResultOK)

	if err := s.cache.Invalidate(ctx, cache.KeyLeaderboard); err != nil {
		s.log.Warn("failed to invalidate leaderboard cache", sl.Err(err))
	}
	s.log.Info("subscription purchased",
		slog.Int64("id", sub.ID),
		slog.String("user_id", buyer.ID),
		slog.Int64("product_id", productID),
		slog.Int64("balance", u.Balance),
	)
	return sub, nil
}

// Activate переводит подписку в status (active или expired). При переходе в
// active из pending_activation проставляются даты; повторная активация даты не меняет.
func (s *Service) Activate(ctx context.Context, actor access.Caller, id int64, status models.SubscriptionStatus, comment *string) (*models.Subscription, error) {
	const op = "subscription.Activate"
	if status != models.SubscriptionActive && status != models.SubscriptionExpired {
		return nil, fmt.Errorf("%s: %w: unsupported status %q", op, models.ErrInvalidInput, status)
	}

	sub, err := s.repo.UpdateSubscription(ctx, id, func(sub *models.Subscription, p models.Product) error {
		if status == models.SubscriptionActive {
			switch sub.Status {
			case models.SubscriptionExpired:
				return models.ErrInvalidTransition
			case models.SubscriptionPending:
				start := s.now().UTC()
				end := start.AddDate(0, 0, p.DurationDays)
				sub.StartDate = &start
				sub.EndDate = &end
			}
		}
		sub.Status = status
		if comment != nil {
			sub.AdminComment = comment
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.SubscriptionStatusAction(status),
		TargetType: audit.TargetSubscription,
		TargetID:   strconv.FormatInt(sub.ID, 10),
		Metadata:   map[string]any{"userId": sub.UserID, "deviceId": sub.DeviceID},
	})
	s.notifyStatus(ctx, sub)
	s.log.Info("subscription status changed",
		slog.Int64("id", sub.ID),
		slog.String("status", string(sub.Status)),
		slog.String("actor_id", actor.ID),
	)
	return sub, nil
}

// Cancel переводит подписку в expired. Уже истёкшая подписка даёт ErrAlreadyExpired.
func (s *Service) Cancel(ctx context.Context, actor access.Caller, id int64) (*models.Subscription, error) {
	const op = "subscription.Cancel"
	sub, err := s.repo.UpdateSubscription(ctx, id, func(sub *models.Subscription, _ models.Product) error {
		if sub.Status == models.SubscriptionExpired {
			return models.ErrAlreadyExpired
		}
		comment := CancelComment
		sub.Status = models.SubscriptionExpired
		sub.AdminComment = &comment
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionSubscriptionCancel,
		TargetType: audit.TargetSubscription,
		TargetID:   strconv.FormatInt(sub.ID, 10),
		Metadata:   map[string]any{"userId": sub.UserID, "deviceId": sub.DeviceID},
	})
	s.notifyStatus(ctx, sub)
	return sub, nil
}

// EditDates частично обновляет даты подписки. Если в результате обе даты
// заданы, конец должен быть строго позже начала.
func (s *Service) EditDates(ctx context.Context, actor access.Caller, id int64, start, end *time.Time) (*models.Subscription, error) {
	const op = "subscription.EditDates"
	sub, err := s.repo.UpdateSubscription(ctx, id, func(sub *models.Subscription, _ models.Product) error {
		if start != nil {
			v := start.UTC()
			sub.StartDate = &v
		}
		if end != nil {
			v := end.UTC()
			sub.EndDate = &v
		}
		if sub.StartDate != nil && sub.EndDate != nil && !sub.EndDate.After(*sub.StartDate) {
			return fmt.Errorf("%w: endDate must be after startDate", models.ErrInvalidInput)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	meta := map[string]any{"userId": sub.UserID}
	if start != nil {
		meta["startDate"] = sub.StartDate.Format(time.RFC3339)
	}
	if end != nil {
		meta["endDate"] = sub.EndDate.Format(time.RFC3339)
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionSubscriptionDates,
		TargetType: audit.TargetSubscription,
		TargetID:   strconv.FormatInt(sub.ID, 10),
		Metadata:   meta,
	})
	return sub, nil
}

// Delete удаляет подписку. Деньги не возвращаются.
func (s *Service) Delete(ctx context.Context, actor access.Caller, id int64) error {
	const op = "subscription.Delete"
	sub, err := s.repo.DeleteSubscription(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionSubscriptionDelete,
		TargetType: audit.TargetSubscription,
		TargetID:   strconv.FormatInt(sub.ID, 10),
		Metadata:   map[string]any{"userId": sub.UserID, "deviceId": sub.DeviceID, "productId": sub.ProductID},
	})
	s.log.Info("subscription deleted", slog.Int64("id", id), slog.String("actor_id", actor.ID))
	return nil
}

// List возвращает подписки с продуктами: администратору все, остальным только свои.
func (s *Service) List(ctx context.Context, caller access.Caller) ([]*models.SubscriptionWithProduct, error) {
	const op = "subscription.List"
	userID := caller.ID
	if caller.IsAdmin() {
		userID = ""
	}
	subs, err := s.repo.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

func (s *Service) notifyStatus(ctx context.Context, sub *models.Subscription) {
	payload := map[string]any{"subscriptionId": sub.ID, "status": sub.Status}
	if sub.EndDate != nil {
		payload["endDate"] = sub.EndDate.Format(time.RFC3339)
	}
	ev := notify.NewEvent(notify.SubscriptionStatus, sub.UserID, payload)
	if err := s.notifier.Publish(ctx, notify.SubscriptionStatus, ev); err != nil {
		s.log.Warn("failed to publish subscription notification", slog.Int64("id", sub.ID), sl.Err(err))
	}
}
