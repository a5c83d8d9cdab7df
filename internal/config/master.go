package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type AppConfig struct {
	DebugMode      bool   `env:"DEBUG_MODE" env-default:"false"`
	LogLevel       string `env:"LOG_LEVEL" env-default:"info"`
	HttpPort       int    `env:"HTTP_PORT" env-default:"8082"`
	RedisConfig    RedisConfig
	PostgresConfig PostgresConfig
	QueueConfig    QueueConfig
	WorkerConfig   WorkerConfig
	SandboxConfig  SandboxConfig
}

// NewSystemConfig reads the configuration from the process environment.
// Dotenv files must be loaded before calling it.
func NewSystemConfig() (*AppConfig, error) {
	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.QueueConfig.Backend {
	case QueueBackendRedis, QueueBackendAMQP:
	default:
		return fmt.Errorf("unsupported queue backend %q", c.QueueConfig.Backend)
	}
	if c.QueueConfig.Backend == QueueBackendAMQP && c.QueueConfig.AmqpUrl == "" {
		return fmt.Errorf("AMQP_URL is required for the %s queue backend", QueueBackendAMQP)
	}
	if c.HttpPort < 0 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HttpPort)
	}
	return nil
}
