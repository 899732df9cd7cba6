// Package models содержит доменные сущности кошелька и подписок:
// пользователей, продукты, подписки, пополнения, объявления и журнал действий,
// а также общие ошибки доменного уровня.
package models

import "time"

// Role роль пользователя в системе.
type Role string

const (
	// RoleCustomer обычный покупатель.
	RoleCustomer Role = "customer"
	// RoleAdmin администратор.
	RoleAdmin Role = "admin"
)

// Valid сообщает, является ли роль известной.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User представляет учётную запись и состояние кошелька пользователя.
// Balance и TotalSpent хранятся в минимальных единицах валюты.
type User struct {
	ID          string    `json:"id"`                  // Идентификатор, выданный внешним провайдером
	Username    string    `json:"username"`            // Логин у провайдера
	DisplayName string    `json:"displayName"`         // Отображаемое имя
	Email       *string   `json:"email,omitempty"`     // Электронная почта (если провайдер её отдал)
	AvatarURL   *string   `json:"avatarUrl,omitempty"` // Ссылка на аватар
	Role        Role      `json:"role"`
	Balance     int64     `json:"balance"`    // Текущий баланс, не может быть отрицательным
	TotalSpent  int64     `json:"totalSpent"` // Сумма всех покупок, только растёт
	IsBanned    bool      `json:"isBanned"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsAdmin сообщает, что пользователь администратор.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity данные пользователя, полученные от внешнего провайдера при входе.
type Identity struct {
	ID          string  `json:"id" validate:"required"`
	Username    string  `json:"username" validate:"required"`
	DisplayName string  `json:"displayName"`
	Email       *string `json:"email,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}
