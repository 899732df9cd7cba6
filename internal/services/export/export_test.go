package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-wallet/internal/models"
	"github.com/magabrotheeeer/subscription-wallet/internal/storage/memory"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockRepository) ListSubscriptions(ctx context.Context, userID string) ([]*models.SubscriptionWithProduct, error) {
	args := m.Called(ctx, userID)
	return nil, args.Error(1)
}

func (m *MockRepository) ListTopups(ctx context.Context, userID string) ([]*models.Topup, error) {
	args := m.Called(ctx, userID)
	return nil, args.Error(1)
}

var exportedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func parse(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestMajor(t *testing.T) {
	tests := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		100:    "1.00",
		35000:  "350.00",
		123456: "1234.56",
		-250:   "-2.50",
	}
	for in, want := range tests {
		assert.Equal(t, want, Major(in), "Major(%d)", in)
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	email := "jane@example.com"
	store.PutUser(models.User{ID: "u1", Username: "jane", DisplayName: "Jane, Doe", Email: &email, Role: models.RoleCustomer, Balance: 12345, TotalSpent: 35000})
	p, err := store.CreateProduct(ctx, models.Product{Name: "Golden", Price: 100, DurationDays: 30, IsActive: true})
	require.NoError(t, err)
	_, _, err = store.Purchase(ctx, "u1", p.ID, "tv \"living room\"", func(*models.User, models.Product) error { return nil })
	require.NoError(t, err)
	proof := "https://example.com/r.png"
	_, err = store.CreateTopup(ctx, models.Topup{UserID: "u1", Amount: 10000, ProofURL: &proof})
	require.NoError(t, err)

	svc := New(store)
	svc.now = func() time.Time { return exportedAt }

	users, err := svc.Export(ctx, TypeUsers)
	require.NoError(t, err)
	assert.Equal(t, "users_1735787045000.csv", users.Name)
	records := parse(t, users.Data)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"u1", "jane", "Jane, Doe", email, "customer", "123.45", "350.00", "No"}, records[1][:8])

	subs, err := svc.Export(ctx, TypeSubscriptions)
	require.NoError(t, err)
	records = parse(t, subs.Data)
	require.Len(t, records, 2)
	assert.Equal(t, "Golden", records[1][2])
	assert.Equal(t, `tv "living room"`, records[1][3])
	assert.Equal(t, "pending_activation", records[1][4])
	assert.Equal(t, "", records[1][5])

	topups, err := svc.Export(ctx, TypeTopups)
	require.NoError(t, err)
	records = parse(t, topups.Data)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"u1", "100.00", "pending", proof}, records[1][1:5])
}

func TestExport_Errors(t *testing.T) {
	_, err := New(memory.New()).Export(context.Background(), "payments")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	repo := new(MockRepository)
	dbErr := errors.New("db down")
	repo.On("ListTopups", mock.Anything, "").Return(nil, dbErr)
	_, err = New(repo).Export(context.Background(), TypeTopups)
	assert.ErrorIs(t, err, dbErr)
}
