// Package notify публикует пользовательские уведомления о событиях кошелька.
//
// Уведомления не входят в бизнес-транзакцию: их отправляют после фиксации
// изменений, а ошибка публикации только логируется вызывающей стороной.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subscription-wallet/internal/config"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/rabbitmq"
)

// Ключи маршрутизации.
const (
	TopupResolved      = rabbitmq.RoutingTopupResolved
	SubscriptionStatus = rabbitmq.RoutingSubscriptionStatus
)

// Event уведомление для пользователя.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	UserID     string         `json:"userId"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// NewEvent создаёт событие со случайным ID.
func NewEvent(eventType, userID string, payload map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// AMQPPublisher публикует события в обменник RabbitMQ.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPPublisher подключается к брокеру и объявляет очереди уведомлений.
func NewAMQPPublisher(cfg config.RabbitMQ) (*AMQPPublisher, error) {
	const op = "notify.NewAMQPPublisher"
	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

// Publish отправляет событие с ключом routingKey.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, ev Event) error {
	const op = "notify.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	// amqp.Channel не рассчитан на конкурентную публикацию
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := rabbitmq.PublishMessage(p.ch, p.exchange, routingKey, ev); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал и соединение.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.ch.Close()
	return p.conn.Close()
}

// Nop издатель-заглушка для запуска без брокера.
type Nop struct{}

// Publish ничего не делает.
func (Nop) Publish(context.Context, string, Event) error { return nil }
