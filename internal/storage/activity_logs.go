package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// CreateActivityLog добавляет запись в журнал действий. Записи журнала не изменяются и не удаляются.
func (s *Storage) CreateActivityLog(ctx context.Context, entry models.ActivityLog) (*models.ActivityLog, error) {
	const op = "storage.CreateActivityLog"

	metadata, err := models.EncodeMetadata(entry.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = s.DB.QueryRowContext(ctx, `INSERT INTO activity_logs
		(actor_id, action, target_type, target_id, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		entry.ActorID, entry.Action, entry.TargetType, entry.TargetID, metadata).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &entry, nil
}

// ListActivityLogs возвращает последние limit записей журнала, новые первыми.
func (s *Storage) ListActivityLogs(ctx context.Context, limit int) ([]*models.ActivityLog, error) {
	const op = "storage.ListActivityLogs"
	rows, err := s.DB.QueryContext(ctx, `SELECT id, actor_id, action, target_type, target_id, metadata, created_at
		FROM activity_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ActivityLog
	for rows.Next() {
		var l models.ActivityLog
		var raw *string
		if err := rows.Scan(&l.ID, &l.ActorID, &l.Action, &l.TargetType, &l.TargetID, &raw, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		l.Metadata = models.DecodeMetadata(raw)
		result = append(result, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
