package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

const topupColumns = `id, user_id, amount, status, proof_url, admin_comment, created_at`

func scanTopup(row scanner) (*models.Topup, error) {
	var t models.Topup
	var status string
	if err := row.Scan(&t.ID, &t.UserID, &t.Amount, &status, &t.ProofURL,
		&t.AdminComment, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Status = models.TopupStatus(status)
	return &t, nil
}

// ListTopups возвращает заявки на пополнение, новые первыми.
// Пустой userID означает все заявки.
func (s *Storage) ListTopups(ctx context.Context, userID string) ([]*models.Topup, error) {
	const op = "storage.ListTopups"
	rows, err := s.DB.QueryContext(ctx, `SELECT `+topupColumns+`
		FROM topups
		WHERE ($1 = '' OR user_id = $1)
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Topup
	for rows.Next() {
		t, err := scanTopup(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetTopup возвращает заявку по ID.
func (s *Storage) GetTopup(ctx context.Context, id int64) (*models.Topup, error) {
	const op = "storage.GetTopup"
	t, err := scanTopup(s.DB.QueryRowContext(ctx, `SELECT `+topupColumns+` FROM topups WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	return t, nil
}

// CreateTopup сохраняет новую заявку в статусе pending.
func (s *Storage) CreateTopup(ctx context.Context, t models.Topup) (*models.Topup, error) {
	const op = "storage.CreateTopup"
	created, err := scanTopup(s.DB.QueryRowContext(ctx, `INSERT INTO topups
		(user_id, amount, status, proof_url)
		VALUES ($1, $2, $3, $4)
		RETURNING `+topupColumns,
		t.UserID, t.Amount, string(models.TopupPending), t.ProofURL))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ResolveTopup переводит заявку из pending в status условным UPDATE.
// Если строка уже не pending, возвращается models.ErrAlreadyProcessed и ничего не меняется.
// Когда fn не nil, строка владельца блокируется и fn изменяет его баланс
// в той же транзакции, так что зачисление происходит только вместе со сменой статуса.
func (s *Storage) ResolveTopup(ctx context.Context, id int64, status models.TopupStatus, comment *string,
	fn func(u *models.User, t models.Topup) error) (*models.Topup, *models.User, error) {
	const op = "storage.ResolveTopup"

	var (
		topup *models.Topup
		owner *models.User
	)
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		t, err := scanTopup(tx.QueryRowContext(ctx, `UPDATE topups
			SET status = $1, admin_comment = $2
			WHERE id = $3 AND status = $4
			RETURNING `+topupColumns,
			string(status), comment, id, string(models.TopupPending)))
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM topups WHERE id = $1)`, id).
				Scan(&exists); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			if !exists {
				return fmt.Errorf("%s: %w", op, models.ErrNotFound)
			}
			return fmt.Errorf("%s: %w", op, models.ErrAlreadyProcessed)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		topup = t

		if fn == nil {
			return nil
		}
		u, err := getUser(ctx, tx, t.UserID, true)
		if err != nil {
			return notFound(op, err)
		}
		if err := fn(u, *t); err != nil {
			return err
		}
		if err := writeLedger(ctx, tx, u); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		owner = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return topup, owner, nil
}
