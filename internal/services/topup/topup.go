// Package topup реализует заявки на пополнение баланса и их рассмотрение администратором.
//
// Зачисление происходит ровно один раз: перевод заявки из pending выполняется
// условным обновлением в хранилище, и только успешный перевод вызывает Credit
// в той же транзакции.
package topup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/audit"
	"github.com/magabrotheeeer/subscription-wallet/internal/ledger"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/metrics"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
	"github.com/magabrotheeeer/subscription-wallet/internal/notify"
)

// Repository хранилище заявок.
type Repository interface {
	CreateTopup(ctx context.Context, t models.Topup) (*models.Topup, error)
	ListTopups(ctx context.Context, userID string) ([]*models.Topup, error)
	GetTopup(ctx context.Context, id int64) (*models.Topup, error)
	ResolveTopup(ctx context.Context, id int64, status models.TopupStatus, comment *string,
		fn func(u *models.User, t models.Topup) error) (*models.Topup, *models.User, error)
}

// Auditor журнал действий.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// Notifier издатель уведомлений.
type Notifier interface {
	Publish(ctx context.Context, routingKey string, ev notify.Event) error
}

// Service бизнес-логика пополнений.
type Service struct {
	repo      Repository
	audit     Auditor
	notifier  Notifier
	metrics   *metrics.Metrics
	log       *slog.Logger
	minAmount int64
}

// New создаёт Service. minAmount минимальная сумма заявки в минимальных единицах.
func New(repo Repository, auditor Auditor, notifier Notifier, m *metrics.Metrics, log *slog.Logger, minAmount int64) *Service {
	return &Service{
		repo:      repo,
		audit:     auditor,
		notifier:  notifier,
		metrics:   m,
		log:       log,
		minAmount: minAmount,
	}
}

// Submit создаёт заявку в статусе pending. Баланс не меняется.
func (s *Service) Submit(ctx context.Context, userID string, amount int64, proofURL *string) (*models.Topup, error) {
	const op = "topup.Submit"
	if amount < s.minAmount {
		return nil, fmt.Errorf("%s: %w: amount must be at least %d", op, models.ErrInvalidInput, s.minAmount)
	}
	t, err := s.repo.CreateTopup(ctx, models.Topup{
		UserID:   userID,
		Amount:   amount,
		ProofURL: proofURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("topup submitted",
		slog.Int64("id", t.ID),
		slog.String("user_id", userID),
		slog.Int64("amount", amount),
	)
	return t, nil
}

// Resolve одобряет или отклоняет заявку. Повторное рассмотрение завершается
// ErrAlreadyProcessed без изменений.
func (s *Service) Resolve(ctx context.Context, actor access.Caller, id int64, decision models.TopupStatus, comment *string) (*models.Topup, error) {
	const op = "topup.Resolve"

	var credit func(u *models.User, t models.Topup) error
	switch decision {
	case models.TopupApproved:
		credit = func(u *models.User, t models.Topup) error {
			updated, err := ledger.Credit(*u, t.Amount)
			s.metrics.LedgerOp(ledger.KindCredit.String(), err)
			if err != nil {
				return err
			}
			*u = updated
			return nil
		}
	case models.TopupRejected:
	default:
		return nil, fmt.Errorf("%s: %w: unknown decision %q", op, models.ErrInvalidInput, decision)
	}

	t, u, err := s.repo.ResolveTopup(ctx, id, decision, comment, credit)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyProcessed) {
			s.log.Warn("topup already processed", slog.Int64("id", id), slog.String("actor_id", actor.ID))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.TopupResolved(string(decision))

	action := audit.ActionTopupRejected
	if decision == models.TopupApproved {
		action = audit.ActionTopupApproved
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     action,
		TargetType: audit.TargetTopup,
		TargetID:   strconv.FormatInt(t.ID, 10),
		Metadata:   map[string]any{"userId": t.UserID, "amount": t.Amount},
	})

	payload := map[string]any{"topupId": t.ID, "status": t.Status, "amount": t.Amount}
	if u != nil {
		payload["balance"] = u.Balance
	}
	if err := s.notifier.Publish(ctx, notify.TopupResolved, notify.NewEvent(notify.TopupResolved, t.UserID, payload)); err != nil {
		s.log.Warn("failed to publish topup notification", slog.Int64("id", t.ID), sl.Err(err))
	}

	s.log.Info("topup resolved",
		slog.Int64("id", t.ID),
		slog.String("status", string(t.Status)),
		slog.String("actor_id", actor.ID),
	)
	return t, nil
}

// List возвращает заявки: администратору все, остальным только свои.
func (s *Service) List(ctx context.Context, caller access.Caller) ([]*models.Topup, error) {
	const op = "topup.List"
	userID := caller.ID
	if caller.IsAdmin() {
		userID = ""
	}
	topups, err := s.repo.ListTopups(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return topups, nil
}

// Get возвращает заявку владельцу или администратору.
func (s *Service) Get(ctx context.Context, caller access.Caller, id int64) (*models.Topup, error) {
	const op = "topup.Get"
	t, err := s.repo.GetTopup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if t.UserID != caller.ID && !caller.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return t, nil
}
