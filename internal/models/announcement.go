package models

import "time"

// Priority важность объявления.
type Priority string

// Допустимые приоритеты объявлений.
const (
	PriorityNormal    Priority = "normal"
	PriorityImportant Priority = "important"
	PriorityUrgent    Priority = "urgent"
)

// Announcement объявление для всех пользователей.
type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Priority  Priority  `json:"priority"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// AnnouncementInput данные нового объявления.
type AnnouncementInput struct {
	Title    string   `json:"title" validate:"required"`
	Body     string   `json:"body" validate:"required"`
	Priority Priority `json:"priority" validate:"omitempty,oneof=normal important urgent"`
}
