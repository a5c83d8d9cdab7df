package docker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"gitlab.com/ticket-raiser/judge/internal/core/ports/primary"
	"gitlab.com/ticket-raiser/judge/internal/core/ports/secondary"
	"gitlab.com/ticket-raiser/judge/internal/domain"
)

const (
	containerSolutionPath = "/tmp/solution.py"
	maxStderrBytes        = 64 << 10
	removeTimeout         = 10 * time.Second

	timeLimitExceededMessage = "Time limit exceeded"
	cancelledMessage         = "sandbox cancelled"
)

var _ secondary.SandboxRunner = (*Runner)(nil)

// Config holds the container limits and process timings of the runner.
// Grace is added to the time limit to cover container startup; KillWait is
// how long a SIGTERM is given before SIGKILL.
type Config struct {
	DockerBinary   string
	Image          string
	Memory         string
	Cpus           string
	PidsLimit      int
	Grace          time.Duration
	KillWait       time.Duration
	ArtifactDir    string
	MaxOutputBytes int
	MaxErrorLength int
}

// DefaultConfig returns a 256m, single cpu python:3.12-slim sandbox
func DefaultConfig() Config {
	return Config{
		DockerBinary:   "docker",
		Image:          "python:3.12-slim",
		Memory:         "256m",
		Cpus:           "1",
		PidsLimit:      64,
		Grace:          5 * time.Second,
		KillWait:       2 * time.Second,
		MaxOutputBytes: 16 << 20,
		MaxErrorLength: 200,
	}
}

// commandFunc builds the process that executes the artifact
type commandFunc func(artifactPath, containerName string) *exec.Cmd

// Runner executes Python submissions in a throwaway docker container,
// one container per test case.
type Runner struct {
	cfg     Config
	logger  primary.Logger
	command commandFunc

	// removeContainer is nil when the command is not a container
	removeContainer func(containerName string)
}

// NewRunner fills unset fields of cfg from DefaultConfig. A zero Grace or
// PidsLimit is kept as configured.
func NewRunner(cfg Config, logger primary.Logger) *Runner {
	defaults := DefaultConfig()
	if cfg.DockerBinary == "" {
		cfg.DockerBinary = defaults.DockerBinary
	}
	if cfg.Image == "" {
		cfg.Image = defaults.Image
	}
	if cfg.Memory == "" {
		cfg.Memory = defaults.Memory
	}
	if cfg.Cpus == "" {
		cfg.Cpus = defaults.Cpus
	}
	if cfg.KillWait <= 0 {
		cfg.KillWait = defaults.KillWait
	}
	if cfg.MaxOutputBytes <= 0 {
		cfg.MaxOutputBytes = defaults.MaxOutputBytes
	}
	if cfg.MaxErrorLength <= 0 {
		cfg.MaxErrorLength = defaults.MaxErrorLength
	}
	r := &Runner{
		cfg:    cfg,
		logger: logger,
	}
	r.command = r.dockerCommand
	r.removeContainer = r.dockerRemove
	return r
}

// dockerArgs returns the `docker run` arguments for one isolated execution
func (r *Runner) dockerArgs(artifactPath, containerName string) []string {
	args := []string{
		"run", "-i", "--rm",
		"--name", containerName,
		"--network", "none",
		"--memory", r.cfg.Memory,
		"--memory-swap", r.cfg.Memory,
		"--cpus", r.cfg.Cpus,
	}
	if r.cfg.PidsLimit > 0 {
		args = append(args, "--pids-limit", strconv.Itoa(r.cfg.PidsLimit))
	}
	args = append(args,
		"-v", fmt.Sprintf("%s:%s:ro", artifactPath, containerSolutionPath),
		r.cfg.Image,
		"python", containerSolutionPath,
	)
	return args
}

func (r *Runner) dockerCommand(artifactPath, containerName string) *exec.Cmd {
	return exec.Command(r.cfg.DockerBinary, r.dockerArgs(artifactPath, containerName)...)
}

// dockerRemove force-removes a container whose CLI process was killed.
// The container may already be gone, so failures are only logged at debug.
func (r *Runner) dockerRemove(containerName string) {
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, r.cfg.DockerBinary, "rm", "-f", containerName).CombinedOutput()
	if err != nil {
		r.logger.Debug("Failed to remove container", "container", containerName, "error", err, "output", strings.TrimSpace(string(out)))
	}
}

// waitBudget is the wall time the sandbox may take for one test case
func (r *Runner) waitBudget(timeLimitMs int) time.Duration {
	return time.Duration(timeLimitMs)*time.Millisecond + r.cfg.Grace
}

// Run executes code against a single input. It never returns an error:
// every failure is reported through the outcome.
func (r *Runner) Run(ctx context.Context, code, input, expectedOutput string, timeLimitMs int) (outcome domain.JudgeOutcome) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Sandbox panicked", "panic", rec)
			outcome = runtimeOutcome(fmt.Sprintf("sandbox panic: %v", rec))
		}
		outcome.Duration = time.Since(start)
	}()

	box, err := r.newSandbox(code)
	if err != nil {
		r.logger.Error("Failed to prepare sandbox", "error", err)
		return runtimeOutcome(err.Error())
	}
	defer box.release()

	res, err := box.execute(ctx, input, r.waitBudget(timeLimitMs))
	if err != nil {
		r.logger.Error("Failed to run sandbox", "container", box.name, "error", err)
		return runtimeOutcome(err.Error())
	}

	switch {
	case res.timedOut:
		r.logger.Warn("Sandbox timed out", "container", box.name, "time_limit_ms", timeLimitMs)
		return domain.JudgeOutcome{
			TimedOut:  true,
			Error:     timeLimitExceededMessage,
			ErrorType: domain.ErrorTypeTimeout,
		}
	case res.cancelled:
		return runtimeOutcome(cancelledMessage)
	}

	if res.stdoutTruncated {
		r.logger.Warn("Sandbox output truncated", "container", box.name, "limit_bytes", r.cfg.MaxOutputBytes)
	}

	if res.exitCode != 0 {
		message := truncate(res.stderr, r.cfg.MaxErrorLength)
		if strings.TrimSpace(message) == "" {
			message = fmt.Sprintf("process exited with code %d", res.exitCode)
		}
		return domain.JudgeOutcome{
			ActualOutput: res.stdout,
			Error:        message,
			ErrorType:    classify(res.stderr),
		}
	}

	actual := strings.TrimSpace(res.stdout)
	if actual == strings.TrimSpace(expectedOutput) {
		return domain.JudgeOutcome{
			Passed:       true,
			ActualOutput: actual,
		}
	}
	return domain.JudgeOutcome{
		ActualOutput: actual,
		ErrorType:    domain.ErrorTypeWrongAnswer,
	}
}

func runtimeOutcome(message string) domain.JudgeOutcome {
	if message == "" {
		message = "runtime error"
	}
	return domain.JudgeOutcome{
		Error:     message,
		ErrorType: domain.ErrorTypeRuntime,
	}
}

// exitCode extracts the exit status from a Wait error
func exitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
