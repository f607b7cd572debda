package config

// QueueConfig describes the RabbitMQ topology used for booking
// notifications.  An empty URL disables publishing.
type QueueConfig struct {
	URL      string
	Exchange string
	Queue    string
	LogPath  string
}

// LoadQueueConfig reads the RabbitMQ settings with defaults.
func LoadQueueConfig() QueueConfig {
	return QueueConfig{
		URL:      getenv("RABBITMQ_URL", ""),
		Exchange: getenv("RABBITMQ_EXCHANGE", "hall.booking"),
		Queue:    getenv("RABBITMQ_QUEUE", "hall.booking.notify"),
		LogPath:  getenv("BOOKING_LOG_PATH", "logs/booking.log"),
	}
}
