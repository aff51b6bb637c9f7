package rabbitmq

// Default queue names used by the service
const (
	// EventsQueue carries match and negotiation events
	EventsQueue = "events"

	// Default AMQP 1.0 address format for queues
	// RabbitMQ expects /queues/<queue_name> format for AMQP 1.0
	EventsQueueAddress = "/queues/events"
)

// DefaultQueues returns the list of queues that should be created on startup
func DefaultQueues() []QueueConfig {
	return []QueueConfig{
		{
			Name:       EventsQueue,
			Durable:    true,
			AutoDelete: false,
		},
	}
}
