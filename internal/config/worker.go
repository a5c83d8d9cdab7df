package config

import "time"

type WorkerConfig struct {
	RetryBackoffSec      int `env:"WORKER_RETRY_BACKOFF_SEC" env-default:"5"`
	HeartbeatIntervalSec int `env:"WORKER_HEARTBEAT_INTERVAL_SEC" env-default:"30"`
	TtlSec               int `env:"WORKER_TTL_SEC" env-default:"300"`
}

func (c WorkerConfig) RetryBackoff() time.Duration {
	return secondsOr(c.RetryBackoffSec, 5)
}

func (c WorkerConfig) HeartbeatInterval() time.Duration {
	return secondsOr(c.HeartbeatIntervalSec, 30)
}

func (c WorkerConfig) Ttl() time.Duration {
	return secondsOr(c.TtlSec, 300)
}

func secondsOr(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
