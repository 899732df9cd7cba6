// Package user реализует администрирование пользователей, рейтинг покупателей
// и заведение учётной записи при входе через внешнего провайдера.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/audit"
	"github.com/magabrotheeeer/subscription-wallet/internal/cache"
	"github.com/magabrotheeeer/subscription-wallet/internal/ledger"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/metrics"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

const leaderboardTTL = 30 * time.Second

// Repository хранилище пользователей.
type Repository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	TopSpenders(ctx context.Context, limit int) ([]*models.User, error)
	UpsertUser(ctx context.Context, identity models.Identity, role models.Role) (*models.User, bool, error)
	UpdateUser(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Cache кеш рейтинга.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Auditor журнал действий.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// TokenMaker выпускает сессионные токены.
type TokenMaker interface {
	GenerateToken(userID, role string) (string, error)
}

// Options настройки сервиса.
type Options struct {
	LeaderboardSize int
	// BootstrapAdmins сообщает, получает ли новая учётная запись роль admin.
	BootstrapAdmins func(id string) bool
}

// Service бизнес-логика пользователей.
type Service struct {
	repo    Repository
	cache   Cache
	audit   Auditor
	tokens  TokenMaker
	metrics *metrics.Metrics
	log     *slog.Logger
	opts    Options
}

// New создаёт Service.
func New(repo Repository, c Cache, auditor Auditor, tokens TokenMaker, m *metrics.Metrics, log *slog.Logger, opts Options) *Service {
	if opts.BootstrapAdmins == nil {
		opts.BootstrapAdmins = func(string) bool { return false }
	}
	return &Service{
		repo:    repo,
		cache:   c,
		audit:   auditor,
		tokens:  tokens,
		metrics: m,
		log:     log,
		opts:    opts,
	}
}

// Session результат входа: учётная запись и токен.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Provision создаёт учётную запись при первом входе или обновляет профиль
// при повторном. Список первичных администраторов учитывается только при создании.
func (s *Service) Provision(ctx context.Context, identity models.Identity) (*Session, error) {
	const op = "user.Provision"
	role := models.RoleCustomer
	if s.opts.BootstrapAdmins(identity.ID) {
		role = models.RoleAdmin
	}
	u, created, err := s.repo.UpsertUser(ctx, identity, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.IsBanned {
		return nil, fmt.Errorf("%s: %w", op, access.ErrBanned)
	}
	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user signed in",
		slog.String("user_id", u.ID),
		slog.Bool("created", created),
		slog.String("role", string(u.Role)),
	)
	return &Session{User: u, Token: token}, nil
}

// Me возвращает учётную запись вызывающего.
func (s *Service) Me(ctx context.Context, caller access.Caller) (*models.User, error) {
	const op = "user.Me"
	u, err := s.repo.GetUser(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// List возвращает всех пользователей.
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	const op = "user.List"
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Leaderboard возвращает топ покупателей с ненулевой суммой покупок.
func (s *Service) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	const op = "user.Leaderboard"
	var cached []models.LeaderboardEntry
	found, err := s.cache.Get(ctx, cache.KeyLeaderboard, &cached)
	if err != nil {
		s.log.Warn("failed to read leaderboard cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	users, err := s.repo.TopSpenders(ctx, s.opts.LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	board := make([]models.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		board = append(board, models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			TotalSpent:  u.TotalSpent,
		})
	}
	if err := s.cache.Set(ctx, cache.KeyLeaderboard, board, leaderboardTTL); err != nil {
		s.log.Warn("failed to cache leaderboard", sl.Err(err))
	}
	return board, nil
}

// ChangeRole меняет роль пользователя. Менять собственную роль нельзя.
func (s *Service) ChangeRole(ctx context.Context, actor access.Caller, targetID string, role models.Role) (*models.User, error) {
	const op = "user.ChangeRole"
	if err := access.RequireNotSelf(actor, targetID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	role, err := access.ParseRole(string(role))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var from models.Role
	u, err := s.repo.UpdateUser(ctx, targetID, func(u *models.User) error {
		from = u.Role
		u.Role = role
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionRoleChange,
		TargetType: audit.TargetUser,
		TargetID:   targetID,
		Metadata:   map[string]any{"from": string(from), "to": string(role)},
	})
	return u, nil
}

// AdjustBalance корректирует баланс на сумму со знаком.
func (s *Service) AdjustBalance(ctx context.Context, actor access.Caller, targetID string, amount int64, reason string) (*models.User, error) {
	const op = "user.AdjustBalance"
	var previous int64
	u, err := s.repo.UpdateUser(ctx, targetID, func(u *models.User) error {
		previous = u.Balance
		updated, err := ledger.Adjust(*u, amount)
		s.metrics.LedgerOp(ledger.KindAdjust.String(), err)
		if err != nil {
			return err
		}
		*u = updated
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionBalanceAdjustment,
		TargetType: audit.TargetUser,
		TargetID:   targetID,
		Metadata: map[string]any{
			"amount":          amount,
			"reason":          reason,
			"previousBalance": previous,
			"newBalance":      u.Balance,
		},
	})
	s.log.Info("balance adjusted",
		slog.String("user_id", targetID),
		slog.Int64("amount", amount),
		slog.String("actor_id", actor.ID),
	)
	return u, nil
}

// SetBanned блокирует или разблокирует пользователя. Блокировать себя нельзя.
func (s *Service) SetBanned(ctx context.Context, actor access.Caller, targetID string, banned bool) (*models.User, error) {
	const op = "user.SetBanned"
	if err := access.RequireNotSelf(actor, targetID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u, err := s.repo.UpdateUser(ctx, targetID, func(u *models.User) error {
		u.IsBanned = banned
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	action := audit.ActionUserUnban
	if banned {
		action = audit.ActionUserBan
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     action,
		TargetType: audit.TargetUser,
		TargetID:   targetID,
		Metadata:   map[string]any{"username": u.Username},
	})
	return u, nil
}

// Delete удаляет пользователя вместе с его подписками и заявками. Удалять себя нельзя.
func (s *Service) Delete(ctx context.Context, actor access.Caller, targetID string) error {
	const op = "user.Delete"
	if err := access.RequireNotSelf(actor, targetID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	// имя читается заранее: после удаления запись журнала останется единственным следом
	target, err := s.repo.GetUser(ctx, targetID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteUser(ctx, targetID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, cache.KeyLeaderboard); err != nil {
		s.log.Warn("failed to invalidate leaderboard cache", sl.Err(err))
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionUserDelete,
		TargetType: audit.TargetUser,
		TargetID:   targetID,
		Metadata:   map[string]any{"username": target.Username},
	})
	s.log.Info("user deleted", slog.String("user_id", targetID), slog.String("actor_id", actor.ID))
	return nil
}
