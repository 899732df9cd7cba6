package models

import "time"

// TopupStatus состояние заявки на пополнение.
type TopupStatus string

const (
	// TopupPending заявка ждёт решения администратора.
	TopupPending TopupStatus = "pending"
	// TopupApproved заявка одобрена, баланс пополнен.
	TopupApproved TopupStatus = "approved"
	// TopupRejected заявка отклонена.
	TopupRejected TopupStatus = "rejected"
)

// Topup заявка пользователя на пополнение баланса переводом вне платформы.
type Topup struct {
	ID           int64       `json:"id"`
	UserID       string      `json:"userId"`
	Amount       int64       `json:"amount"`
	Status       TopupStatus `json:"status"`
	ProofURL     *string     `json:"proofUrl"`
	AdminComment *string     `json:"adminComment"`
	CreatedAt    time.Time   `json:"createdAt"`
}
