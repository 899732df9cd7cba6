package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

const userColumns = `id, username, display_name, email, avatar_url, role, balance,
	total_spent, is_banned, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Email, &u.AvatarURL, &role,
		&u.Balance, &u.TotalSpent, &u.IsBanned, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func getUser(ctx context.Context, q queryer, id string, forUpdate bool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanUser(q.QueryRowContext(ctx, query, id))
}

// writeLedger сохраняет баланс и сумму покупок пользователя внутри транзакции.
func writeLedger(ctx context.Context, tx *sql.Tx, u *models.User) error {
	return tx.QueryRowContext(ctx, `UPDATE users
		SET balance = $1, total_spent = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`, u.Balance, u.TotalSpent, u.ID).Scan(&u.UpdatedAt)
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	u, err := getUser(ctx, s.DB, id, false)
	if err != nil {
		return nil, notFound(op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, новых первыми.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// TopSpenders возвращает limit пользователей с наибольшей суммой покупок (только total_spent > 0).
func (s *Storage) TopSpenders(ctx context.Context, limit int) ([]*models.User, error) {
	const op = "storage.TopSpenders"
	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+`
		FROM users
		WHERE total_spent > 0
		ORDER BY total_spent DESC, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertUser создаёт пользователя при первом входе с ролью role
// или обновляет профильные поля существующего. Роль существующего пользователя не меняется.
func (s *Storage) UpsertUser(ctx context.Context, identity models.Identity, role models.Role) (*models.User, bool, error) {
	const op = "storage.UpsertUser"

	query := `INSERT INTO users (id, username, display_name, email, avatar_url, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			display_name = EXCLUDED.display_name,
			email = COALESCE(EXCLUDED.email, users.email),
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING ` + userColumns + `, (xmax = 0) AS inserted`

	var u models.User
	var roleStr string
	var inserted bool
	err := s.DB.QueryRowContext(ctx, query, identity.ID, identity.Username, identity.DisplayName,
		identity.Email, identity.AvatarURL, string(role)).Scan(&u.ID, &u.Username, &u.DisplayName,
		&u.Email, &u.AvatarURL, &roleStr, &u.Balance, &u.TotalSpent, &u.IsBanned, &u.CreatedAt,
		&u.UpdatedAt, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	u.Role = models.Role(roleStr)
	return &u, inserted, nil
}

// UpdateUser блокирует строку пользователя, применяет к ней fn и сохраняет
// роль, баланс, сумму покупок и признак блокировки. Ошибка fn откатывает транзакцию.
func (s *Storage) UpdateUser(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error) {
	const op = "storage.UpdateUser"

	var result *models.User
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		u, err := getUser(ctx, tx, id, true)
		if err != nil {
			return notFound(op, err)
		}
		if err := fn(u); err != nil {
			return err
		}
		err = tx.QueryRowContext(ctx, `UPDATE users
			SET role = $1, balance = $2, total_spent = $3, is_banned = $4, updated_at = NOW()
			WHERE id = $5
			RETURNING updated_at`,
			string(u.Role), u.Balance, u.TotalSpent, u.IsBanned, u.ID).Scan(&u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		result = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteUser удаляет пользователя. Подписки, пополнения и объявления
// пользователя удаляются каскадно внешними ключами.
func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	const op = "storage.DeleteUser"

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
