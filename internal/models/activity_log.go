package models

import (
	"encoding/json"
	"time"
)

// ActivityLog неизменяемая запись журнала действий администраторов.
type ActivityLog struct {
	ID         int64          `json:"id"`
	ActorID    string         `json:"actorId"`
	Action     string         `json:"action"`
	TargetType string         `json:"targetType"`
	TargetID   string         `json:"targetId"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// EncodeMetadata сериализует метаданные записи журнала для хранения.
func EncodeMetadata(m map[string]any) (*string, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// DecodeMetadata разбирает сохранённые метаданные. Повреждённая запись
// не должна ломать выдачу журнала, поэтому ошибка разбора даёт nil.
func DecodeMetadata(raw *string) map[string]any {
	if raw == nil || *raw == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(*raw), &m); err != nil {
		return nil
	}
	return m
}
