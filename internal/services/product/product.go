// Package product реализует каталог продуктов с кешированием списка.
package product

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/audit"
	"github.com/magabrotheeeer/subscription-wallet/internal/cache"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

const catalogTTL = 5 * time.Minute

// Repository хранилище продуктов.
type Repository interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, fn func(p *models.Product) error) (*models.Product, error)
}

// Cache кеш каталога.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Auditor журнал действий.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// Service бизнес-логика каталога.
type Service struct {
	repo  Repository
	cache Cache
	audit Auditor
	log   *slog.Logger
}

// New создаёт Service.
func New(repo Repository, c Cache, auditor Auditor, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: c, audit: auditor, log: log}
}

// List возвращает все продукты, новые первыми.
func (s *Service) List(ctx context.Context) ([]*models.Product, error) {
	const op = "product.List"
	var cached []*models.Product
	found, err := s.cache.Get(ctx, cache.KeyProducts, &cached)
	if err != nil {
		s.log.Warn("failed to read product cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, cache.KeyProducts, products, catalogTTL); err != nil {
		s.log.Warn("failed to cache products", sl.Err(err))
	}
	return products, nil
}

// Get возвращает продукт по ID.
func (s *Service) Get(ctx context.Context, id int64) (*models.Product, error) {
	const op = "product.Get"
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Create добавляет продукт. По умолчанию продукт доступен для покупки.
func (s *Service) Create(ctx context.Context, actor access.Caller, in models.ProductInput) (*models.Product, error) {
	const op = "product.Create"
	if in.Price <= 0 || in.DurationDays <= 0 {
		return nil, fmt.Errorf("%s: %w: price and durationDays must be positive", op, models.ErrInvalidInput)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	p, err := s.repo.CreateProduct(ctx, models.Product{
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		DurationDays: in.DurationDays,
		IsActive:     active,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionProductCreate,
		TargetType: audit.TargetProduct,
		TargetID:   strconv.FormatInt(p.ID, 10),
		Metadata:   map[string]any{"name": p.Name, "price": p.Price},
	})
	return p, nil
}

// Update частично обновляет продукт.
func (s *Service) Update(ctx context.Context, actor access.Caller, id int64, patch models.ProductPatch) (*models.Product, error) {
	const op = "product.Update"
	p, err := s.repo.UpdateProduct(ctx, id, func(p *models.Product) error {
		patch.Apply(p)
		if p.Price <= 0 || p.DurationDays <= 0 || p.Name == "" {
			return fmt.Errorf("%w: name, price and durationDays must be set", models.ErrInvalidInput)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionProductUpdate,
		TargetType: audit.TargetProduct,
		TargetID:   strconv.FormatInt(p.ID, 10),
		Metadata:   patchMetadata(patch),
	})
	return p, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.KeyProducts); err != nil {
		s.log.Warn("failed to invalidate product cache", sl.Err(err))
	}
}

func patchMetadata(p models.ProductPatch) map[string]any {
	meta := map[string]any{}
	if p.Name != nil {
		meta["name"] = *p.Name
	}
	if p.Description != nil {
		meta["description"] = *p.Description
	}
	if p.Price != nil {
		meta["price"] = *p.Price
	}
	if p.DurationDays != nil {
		meta["durationDays"] = *p.DurationDays
	}
	if p.IsActive != nil {
		meta["isActive"] = *p.IsActive
	}
	return meta
}
