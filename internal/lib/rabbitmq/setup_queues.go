package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetLogQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "logs.generated", RoutingKey: "generated"},
		// при необходимости дополнительные очереди для других воркеров
	}
}
