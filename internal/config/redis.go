package config

type RedisConfig struct {
	DB       int    `env:"REDIS_DB" env-default:"0"`
	Url      string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
}
