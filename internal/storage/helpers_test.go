package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/subscription-wallet/internal/migrations"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя с заданным балансом
func (f *TestDataFactory) CreateUser(t *testing.T, id string, role models.Role, balance int64) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (id, username, display_name, role, balance)
		VALUES ($1, $2, $2, $3, $4)`,
		id, "user_"+id, string(role), balance)
	require.NoError(t, err)
}

// CreateProduct создает тестовый продукт
func (f *TestDataFactory) CreateProduct(t *testing.T, price int64, durationDays int, active bool) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO products (name, description, price, duration_days, is_active)
		VALUES ('Plan', 'Test plan', $1, $2, $3) RETURNING id`,
		price, durationDays, active).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTopup создает тестовую заявку на пополнение
func (f *TestDataFactory) CreateTopup(t *testing.T, userID string, amount int64) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO topups (user_id, amount) VALUES ($1, $2) RETURNING id`,
		userID, amount).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyLedger проверяет баланс и сумму покупок пользователя
func (v *TestVerification) VerifyLedger(t *testing.T, userID string, balance, totalSpent int64) {
	var gotBalance, gotSpent int64
	err := v.storage.DB.QueryRow("SELECT balance, total_spent FROM users WHERE id = $1", userID).
		Scan(&gotBalance, &gotSpent)
	require.NoError(t, err)
	require.Equal(t, balance, gotBalance, "balance")
	require.Equal(t, totalSpent, gotSpent, "total_spent")
}

// CountRows возвращает количество строк таблицы по условию на user_id
func (v *TestVerification) CountRows(t *testing.T, table, userID string) int {
	var count int
	err := v.storage.DB.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = $1", table), userID).Scan(&count)
	require.NoError(t, err)
	return count
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL и применяет миграции
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	port := nat.Port("5432/tcp")

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(port),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3 * time.Minute),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")

	mapped, err := postgresContainer.MappedPort(ctx, port)
	require.NoError(t, err, "Failed to get port")
	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, mapped.Port())

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath), "Failed to apply migrations")
	_, err = storage.DB.Exec(`DELETE FROM products`)
	require.NoError(t, err)

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
