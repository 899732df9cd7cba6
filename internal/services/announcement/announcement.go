// Package announcement реализует объявления администраторов для всех пользователей.
package announcement

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/audit"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Repository хранилище объявлений.
type Repository interface {
	ListAnnouncements(ctx context.Context) ([]*models.Announcement, error)
	CreateAnnouncement(ctx context.Context, a models.Announcement) (*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) (*models.Announcement, error)
}

// Auditor журнал действий.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// Service бизнес-логика объявлений.
type Service struct {
	repo  Repository
	audit Auditor
	log   *slog.Logger
}

// New создаёт Service.
func New(repo Repository, auditor Auditor, log *slog.Logger) *Service {
	return &Service{repo: repo, audit: auditor, log: log}
}

// List возвращает объявления, новые первыми.
func (s *Service) List(ctx context.Context) ([]*models.Announcement, error) {
	const op = "announcement.List"
	items, err := s.repo.ListAnnouncements(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Create публикует объявление. Пустой приоритет означает normal.
func (s *Service) Create(ctx context.Context, actor access.Caller, in models.AnnouncementInput) (*models.Announcement, error) {
	const op = "announcement.Create"
	priority := in.Priority
	switch priority {
	case "":
		priority = models.PriorityNormal
	case models.PriorityNormal, models.PriorityImportant, models.PriorityUrgent:
	default:
		return nil, fmt.Errorf("%s: %w: unknown priority %q", op, models.ErrInvalidInput, priority)
	}
	a, err := s.repo.CreateAnnouncement(ctx, models.Announcement{
		Title:     in.Title,
		Body:      in.Body,
		Priority:  priority,
		CreatedBy: actor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionAnnouncementCreate,
		TargetType: audit.TargetAnnouncement,
		TargetID:   strconv.FormatInt(a.ID, 10),
		Metadata:   map[string]any{"title": a.Title, "priority": string(a.Priority)},
	})
	return a, nil
}

// Delete удаляет объявление.
func (s *Service) Delete(ctx context.Context, actor access.Caller, id int64) error {
	const op = "announcement.Delete"
	a, err := s.repo.DeleteAnnouncement(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionAnnouncementDelete,
		TargetType: audit.TargetAnnouncement,
		TargetID:   strconv.FormatInt(a.ID, 10),
		Metadata:   map[string]any{"title": a.Title},
	})
	return nil
}
