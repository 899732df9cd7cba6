package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

const productColumns = `id, name, description, price, duration_days, is_active, created_at`

func scanProduct(row scanner) (*models.Product, error) {
	var p models.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DurationDays,
		&p.IsActive, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts возвращает все продукты, новые первыми.
func (s *Storage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	rows, err := s.DB.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetProduct возвращает продукт по ID.
func (s *Storage) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "storage.GetProduct"
	p, err := scanProduct(s.DB.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	return p, nil
}

// CreateProduct сохраняет новый продукт.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.CreateProduct"
	created, err := scanProduct(s.DB.QueryRowContext(ctx, `INSERT INTO products
		(name, description, price, duration_days, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.DurationDays, p.IsActive))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// UpdateProduct блокирует продукт, применяет fn и сохраняет результат.
func (s *Storage) UpdateProduct(ctx context.Context, id int64, fn func(p *models.Product) error) (*models.Product, error) {
	const op = "storage.UpdateProduct"

	var result *models.Product
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		p, err := scanProduct(tx.QueryRowContext(ctx,
			`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return notFound(op, err)
		}
		if err := fn(p); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE products
			SET name = $1, description = $2, price = $3, duration_days = $4, is_active = $5
			WHERE id = $6`,
			p.Name, p.Description, p.Price, p.DurationDays, p.IsActive, p.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
