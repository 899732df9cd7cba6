package product

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/audit"
	"github.com/magabrotheeeer/subscription-wallet/internal/cache"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
	"github.com/magabrotheeeer/subscription-wallet/internal/storage/memory"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type spyAuditor struct {
	entries []audit.Entry
}

func (a *spyAuditor) Record(_ context.Context, e audit.Entry) {
	a.entries = append(a.entries, e)
}

var admin = access.Caller{ID: "admin", Role: models.RoleAdmin}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	auditor := &spyAuditor{}
	svc := New(memory.New(), cache.Nop{}, auditor, newNoopLogger())

	p, err := svc.Create(ctx, admin, models.ProductInput{Name: "Golden", Description: "1 year", Price: 35000, DurationDays: 365})
	require.NoError(t, err)
	assert.True(t, p.IsActive)

	inactive := false
	hidden, err := svc.Create(ctx, admin, models.ProductInput{Name: "Beta", Description: "b", Price: 100, DurationDays: 7, IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Golden", got.Name)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Create(ctx, admin, models.ProductInput{Name: "Free", Description: "x", Price: 0, DurationDays: 1})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	require.Len(t, auditor.entries, 2)
	assert.Equal(t, audit.ActionProductCreate, auditor.entries[0].Action)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	auditor := &spyAuditor{}
	svc := New(memory.New(), cache.Nop{}, auditor, newNoopLogger())
	p, err := svc.Create(ctx, admin, models.ProductInput{Name: "Golden", Description: "1 year", Price: 35000, DurationDays: 365})
	require.NoError(t, err)

	price := int64(30000)
	off := false
	updated, err := svc.Update(ctx, admin, p.ID, models.ProductPatch{Price: &price, IsActive: &off})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), updated.Price)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Golden", updated.Name)
	assert.Equal(t, 365, updated.DurationDays)

	zero := int64(0)
	_, err = svc.Update(ctx, admin, p.ID, models.ProductPatch{Price: &zero})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Update(ctx, admin, 9999, models.ProductPatch{Price: &price})
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.Len(t, auditor.entries, 2)
	assert.Equal(t, audit.ActionProductUpdate, auditor.entries[1].Action)
	assert.Equal(t, map[string]any{"price": int64(30000), "isActive": false}, auditor.entries[1].Metadata)
}

func TestList_UsesCache(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	c := new(MockCache)
	svc := New(store, c, &spyAuditor{}, newNoopLogger())

	c.On("Get", mock.Anything, cache.KeyProducts, mock.Anything).Return(false, errors.New("redis down")).Once()
	c.On("Set", mock.Anything, cache.KeyProducts, mock.Anything, catalogTTL).Return(nil).Once()
	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	c.On("Get", mock.Anything, cache.KeyProducts, mock.Anything).Return(true, nil).Once()
	_, err = svc.List(ctx)
	require.NoError(t, err)

	c.On("Invalidate", mock.Anything, []string{cache.KeyProducts}).Return(nil).Once()
	_, err = svc.Create(ctx, admin, models.ProductInput{Name: "n", Description: "d", Price: 1, DurationDays: 1})
	require.NoError(t, err)

	c.AssertExpectations(t)
}
