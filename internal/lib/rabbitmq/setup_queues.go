package rabbitmq

// Ключи маршрутизации уведомлений.
const (
	RoutingTopupResolved      = "topup.resolved"
	RoutingSubscriptionStatus = "subscription.status"
)

// QueueConfig пара очередь и ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди пользовательских уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.topup", RoutingKey: RoutingTopupResolved},
		{QueueName: "notifications.subscription", RoutingKey: RoutingSubscriptionStatus},
	}
}
