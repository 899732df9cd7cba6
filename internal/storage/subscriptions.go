package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

const subscriptionColumns = `s.id, s.user_id, s.product_id, s.device_id, s.status, s.start_date,
	s.end_date, s.admin_comment, s.created_at`

func scanSubscription(row scanner) (*models.Subscription, error) {
	var sub models.Subscription
	var status string
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.ProductID, &sub.DeviceID, &status,
		&sub.StartDate, &sub.EndDate, &sub.AdminComment, &sub.CreatedAt); err != nil {
		return nil, err
	}
	sub.Status = models.SubscriptionStatus(status)
	return &sub, nil
}

// ListSubscriptions возвращает подписки вместе с продуктами, новые первыми.
// Пустой userID означает все подписки.
func (s *Storage) ListSubscriptions(ctx context.Context, userID string) ([]*models.SubscriptionWithProduct, error) {
	const op = "storage.ListSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `,
			p.id, p.name, p.description, p.price, p.duration_days, p.is_active, p.created_at
		FROM subscriptions s
		JOIN products p ON p.id = s.product_id
		WHERE ($1 = '' OR s.user_id = $1)
		ORDER BY s.created_at DESC, s.id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionWithProduct
	for rows.Next() {
		var item models.SubscriptionWithProduct
		var status string
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.DeviceID, &status,
			&item.StartDate, &item.EndDate, &item.AdminComment, &item.CreatedAt,
			&item.Product.ID, &item.Product.Name, &item.Product.Description, &item.Product.Price,
			&item.Product.DurationDays, &item.Product.IsActive, &item.Product.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.Status = models.SubscriptionStatus(status)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetSubscription возвращает подписку по ID.
func (s *Storage) GetSubscription(ctx context.Context, id int64) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions s WHERE s.id = $1`, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	return sub, nil
}

// Purchase в одной транзакции блокирует продукт и пользователя, даёт fn
// проверить продукт и списать цену с баланса, сохраняет баланс и создаёт
// подписку в статусе pending_activation. Ошибка на любом шаге откатывает всё.
func (s *Storage) Purchase(ctx context.Context, userID string, productID int64, deviceID string,
	fn func(u *models.User, p models.Product) error) (*models.Subscription, *models.User, error) {
	const op = "storage.Purchase"

	var (
		sub  *models.Subscription
		user *models.User
	)
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		p, err := scanProduct(tx.QueryRowContext(ctx,
			`SELECT `+productColumns+` FROM products WHERE id = $1 FOR SHARE`, productID))
		if err != nil {
			return notFound(op, err)
		}
		u, err := getUser(ctx, tx, userID, true)
		if err != nil {
			return notFound(op, err)
		}
		if err := fn(u, *p); err != nil {
			return err
		}
		if err := writeLedger(ctx, tx, u); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		created, err := scanSubscription(tx.QueryRowContext(ctx, `INSERT INTO subscriptions AS s
			(user_id, product_id, device_id, status)
			VALUES ($1, $2, $3, $4)
			RETURNING `+subscriptionColumns,
			u.ID, p.ID, deviceID, string(models.SubscriptionPending)))
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		sub, user = created, u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return sub, user, nil
}

// UpdateSubscription блокирует подписку, передаёт её fn вместе с продуктом
// и сохраняет статус, даты и комментарий.
func (s *Storage) UpdateSubscription(ctx context.Context, id int64,
	fn func(sub *models.Subscription, p models.Product) error) (*models.Subscription, error) {
	const op = "storage.UpdateSubscription"

	var result *models.Subscription
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		sub, err := scanSubscription(tx.QueryRowContext(ctx,
			`SELECT `+subscriptionColumns+` FROM subscriptions s WHERE s.id = $1 FOR UPDATE`, id))
		if err != nil {
			return notFound(op, err)
		}
		p, err := scanProduct(tx.QueryRowContext(ctx,
			`SELECT `+productColumns+` FROM products WHERE id = $1`, sub.ProductID))
		if err != nil {
			return notFound(op, err)
		}
		if err := fn(sub, *p); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE subscriptions
			SET status = $1, start_date = $2, end_date = $3, admin_comment = $4
			WHERE id = $5`,
			string(sub.Status), sub.StartDate, sub.EndDate, sub.AdminComment, sub.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		result = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteSubscription удаляет подписку и возвращает удалённую запись.
// Возврат средств не выполняется.
func (s *Storage) DeleteSubscription(ctx context.Context, id int64) (*models.Subscription, error) {
	const op = "storage.DeleteSubscription"
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx,
		`DELETE FROM subscriptions AS s WHERE s.id = $1 RETURNING `+subscriptionColumns, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	return sub, nil
}
