package models

import "time"

// SubscriptionStatus состояние подписки.
type SubscriptionStatus string

const (
	// SubscriptionPending подписка куплена и ждёт активации администратором.
	SubscriptionPending SubscriptionStatus = "pending_activation"
	// SubscriptionActive подписка активна, даты проставлены.
	SubscriptionActive SubscriptionStatus = "active"
	// SubscriptionExpired конечное состояние.
	SubscriptionExpired SubscriptionStatus = "expired"
)

// Subscription покупка продукта пользователем для конкретного устройства.
// StartDate и EndDate пустые до первой активации.
type Subscription struct {
	ID           int64              `json:"id"`
	UserID       string             `json:"userId"`
	ProductID    int64              `json:"productId"`
	DeviceID     string             `json:"deviceId"`
	Status       SubscriptionStatus `json:"status"`
	StartDate    *time.Time         `json:"startDate"`
	EndDate      *time.Time         `json:"endDate"`
	AdminComment *string            `json:"adminComment"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// SubscriptionWithProduct подписка вместе с купленным продуктом.
type SubscriptionWithProduct struct {
	Subscription
	Product Product `json:"product"`
}
