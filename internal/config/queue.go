package config

import "time"

const (
	QueueBackendRedis = "redis"
	QueueBackendAMQP  = "amqp"
)

type QueueConfig struct {
	Backend         string `env:"QUEUE_BACKEND" env-default:"redis"`
	Name            string `env:"QUEUE_NAME" env-default:"submissions_queue"`
	BlockTimeoutSec int    `env:"QUEUE_BLOCK_TIMEOUT_SEC" env-default:"0"`
	AmqpUrl         string `env:"AMQP_URL"`
}

// BlockTimeout is how long a single blocking pop waits; zero waits forever
func (c QueueConfig) BlockTimeout() time.Duration {
	return time.Duration(c.BlockTimeoutSec) * time.Second
}
