package models

import "time"

// TopupInput заявка пользователя на пополнение. Сумма ограничена сверху,
// чтобы одобренные заявки не приближали баланс к пределу int64.
type TopupInput struct {
	Amount   int64   `json:"amount" validate:"required,gt=0,max=100000000000"`
	ProofURL *string `json:"proofUrl,omitempty"`
}

// TopupDecision решение администратора по заявке.
type TopupDecision struct {
	Status       TopupStatus `json:"status" validate:"required,oneof=approved rejected"`
	AdminComment *string     `json:"adminComment,omitempty"`
}

// PurchaseInput покупка подписки.
type PurchaseInput struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	DeviceID  string `json:"deviceId" validate:"required"`
}

// ActivationInput смена статуса подписки администратором.
type ActivationInput struct {
	Status       SubscriptionStatus `json:"status" validate:"required,oneof=active expired"`
	AdminComment *string            `json:"adminComment,omitempty"`
}

// DatesInput ручная правка дат подписки; nil-поля не меняются.
type DatesInput struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// RoleInput смена роли пользователя.
type RoleInput struct {
	Role Role `json:"role" validate:"required,oneof=customer admin"`
}

// BalanceInput ручная корректировка баланса на сумму со знаком.
type BalanceInput struct {
	Amount int64  `json:"amount" validate:"required"`
	Reason string `json:"reason"`
}

// BanInput блокировка или разблокировка пользователя.
type BanInput struct {
	Banned *bool `json:"banned"`
}

// LeaderboardEntry публичная строка рейтинга покупателей.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
	TotalSpent  int64   `json:"totalSpent"`
}
