package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

const announcementColumns = `id, title, body, priority, created_by, created_at`

func scanAnnouncement(row scanner) (*models.Announcement, error) {
	var a models.Announcement
	var priority string
	if err := row.Scan(&a.ID, &a.Title, &a.Body, &priority, &a.CreatedBy, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Priority = models.Priority(priority)
	return &a, nil
}

// ListAnnouncements возвращает объявления, новые первыми.
func (s *Storage) ListAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	const op = "storage.ListAnnouncements"
	rows, err := s.DB.QueryContext(ctx, `SELECT `+announcementColumns+`
		FROM announcements ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateAnnouncement сохраняет объявление.
func (s *Storage) CreateAnnouncement(ctx context.Context, a models.Announcement) (*models.Announcement, error) {
	const op = "storage.CreateAnnouncement"
	created, err := scanAnnouncement(s.DB.QueryRowContext(ctx, `INSERT INTO announcements
		(title, body, priority, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING `+announcementColumns,
		a.Title, a.Body, string(a.Priority), a.CreatedBy))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// DeleteAnnouncement удаляет объявление и возвращает удалённую запись.
func (s *Storage) DeleteAnnouncement(ctx context.Context, id int64) (*models.Announcement, error) {
	const op = "storage.DeleteAnnouncement"
	a, err := scanAnnouncement(s.DB.QueryRowContext(ctx,
		`DELETE FROM announcements WHERE id = $1 RETURNING `+announcementColumns, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	return a, nil
}
