package models

import "time"

// Product тарифный план, который можно купить с баланса.
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`        // Цена в минимальных единицах
	DurationDays int       `json:"durationDays"` // Срок действия подписки в днях
	IsActive     bool      `json:"isActive"`     // Доступен ли продукт для покупки
	CreatedAt    time.Time `json:"createdAt"`
}

// ProductInput данные для создания продукта.
type ProductInput struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Price        int64  `json:"price" validate:"required,gt=0"`
	DurationDays int    `json:"durationDays" validate:"required,gt=0"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

// ProductPatch частичное обновление продукта, nil-поля не меняются.
type ProductPatch struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description  *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Price        *int64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	DurationDays *int    `json:"durationDays,omitempty" validate:"omitempty,gt=0"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

// Apply применяет непустые поля к продукту.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.DurationDays != nil {
		product.DurationDays = *p.DurationDays
	}
	if p.IsActive != nil {
		product.IsActive = *p.IsActive
	}
}
