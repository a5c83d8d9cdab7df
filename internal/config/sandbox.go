package config

import "time"

type SandboxConfig struct {
	DockerBinary   string `env:"SANDBOX_DOCKER_BINARY" env-default:"docker"`
	Image          string `env:"SANDBOX_IMAGE" env-default:"python:3.12-slim"`
	Memory         string `env:"SANDBOX_MEMORY" env-default:"256m"`
	Cpus           string `env:"SANDBOX_CPUS" env-default:"1"`
	PidsLimit      int    `env:"SANDBOX_PIDS_LIMIT" env-default:"64"`
	GraceSec       int    `env:"SANDBOX_GRACE_SEC" env-default:"5"`
	KillWaitSec    int    `env:"SANDBOX_KILL_WAIT_SEC" env-default:"2"`
	ArtifactDir    string `env:"SANDBOX_ARTIFACT_DIR" env-default:""`
	MaxOutputBytes int    `env:"SANDBOX_MAX_OUTPUT_BYTES" env-default:"16777216"`
	MaxErrorLength int    `env:"SANDBOX_MAX_ERROR_LENGTH" env-default:"200"`
}

func (c SandboxConfig) Grace() time.Duration {
	return time.Duration(c.GraceSec) * time.Second
}

func (c SandboxConfig) KillWait() time.Duration {
	return secondsOr(c.KillWaitSec, 2)
}
