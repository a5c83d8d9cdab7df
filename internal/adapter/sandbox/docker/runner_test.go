package docker

import (
	"context"
	"os"
	"os/exec"
	"reflect"
	"strings"
	"testing"
	"time"

	"gitlab.com/ticket-raiser/judge/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type shellRunner struct {
	*Runner
	artifacts []string
	removed   []string
}

// newShellRunner runs submissions as /bin/sh scripts instead of python containers
func newShellRunner(t *testing.T) *shellRunner {
	t.Helper()
	if _, err := exec.LookPath("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	cfg := DefaultConfig()
	cfg.ArtifactDir = t.TempDir()
	cfg.Grace = 100 * time.Millisecond
	cfg.KillWait = 100 * time.Millisecond

	sr := &shellRunner{Runner: NewRunner(cfg, nopLogger{})}
	sr.command = func(artifactPath, containerName string) *exec.Cmd {
		sr.artifacts = append(sr.artifacts, artifactPath)
		return exec.Command("/bin/sh", artifactPath)
	}
	sr.removeContainer = func(containerName string) {
		sr.removed = append(sr.removed, containerName)
	}
	return sr
}

func (sr *shellRunner) assertArtifactsRemoved(t *testing.T) {
	t.Helper()
	if len(sr.artifacts) == 0 {
		t.Fatal("expected the command to be invoked")
	}
	for _, path := range sr.artifacts {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected artifact %s to be removed, stat error: %v", path, err)
		}
	}
}

func TestNewRunnerFillsUnsetFields(t *testing.T) {
	r := NewRunner(Config{Image: "python:3.11-slim"}, nopLogger{})

	if r.cfg.Image != "python:3.11-slim" {
		t.Fatalf("expected configured image to be kept, got %q", r.cfg.Image)
	}
	defaults := DefaultConfig()
	if r.cfg.DockerBinary != defaults.DockerBinary || r.cfg.Memory != defaults.Memory || r.cfg.Cpus != defaults.Cpus {
		t.Fatalf("expected default binary and limits, got %+v", r.cfg)
	}
	if r.cfg.KillWait != defaults.KillWait || r.cfg.MaxOutputBytes != defaults.MaxOutputBytes || r.cfg.MaxErrorLength != defaults.MaxErrorLength {
		t.Fatalf("expected default timings and caps, got %+v", r.cfg)
	}
	if r.cfg.Grace != 0 || r.cfg.PidsLimit != 0 {
		t.Fatalf("expected zero grace and pids limit to be kept, got %+v", r.cfg)
	}
}

func TestDockerArgs(t *testing.T) {
	r := NewRunner(DefaultConfig(), nopLogger{})

	got := r.dockerArgs("/tmp/solution-1.py", "judge-abc")
	want := []string{
		"run", "-i", "--rm",
		"--name", "judge-abc",
		"--network", "none",
		"--memory", "256m",
		"--memory-swap", "256m",
		"--cpus", "1",
		"--pids-limit", "64",
		"-v", "/tmp/solution-1.py:/tmp/solution.py:ro",
		"python:3.12-slim",
		"python", "/tmp/solution.py",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected docker args:\n got %v\nwant %v", got, want)
	}
}

func TestWaitBudget(t *testing.T) {
	r := NewRunner(DefaultConfig(), nopLogger{})
	if got := r.waitBudget(1500); got != 6500*time.Millisecond {
		t.Fatalf("expected 6.5s, got %v", got)
	}
}

func TestRunEchoesInput(t *testing.T) {
	sr := newShellRunner(t)

	outcome := sr.Run(context.Background(), "read line\necho \"$line\"\n", "hello\n", "hello\n", 1000)
	if !outcome.Passed {
		t.Fatalf("expected pass, got %+v", outcome)
	}
	if outcome.ActualOutput != "hello" || outcome.Error != "" || outcome.TimedOut {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if len(sr.removed) != 0 {
		t.Fatalf("container removal should only follow a kill, got %v", sr.removed)
	}
	sr.assertArtifactsRemoved(t)
}

func TestRunWrongAnswer(t *testing.T) {
	sr := newShellRunner(t)

	outcome := sr.Run(context.Background(), "echo 42", "", "43", 1000)
	if outcome.Passed {
		t.Fatal("expected mismatch")
	}
	if outcome.ErrorType != domain.ErrorTypeWrongAnswer {
		t.Fatalf("expected WRONG_ANSWER, got %q", outcome.ErrorType)
	}
	if outcome.Error != "" {
		t.Fatalf("wrong answer must not carry an error, got %q", outcome.Error)
	}
	if outcome.ActualOutput != "42" {
		t.Fatalf("expected actual output 42, got %q", outcome.ActualOutput)
	}
}

func TestRunRuntimeErrorIsClassified(t *testing.T) {
	sr := newShellRunner(t)

	code := "echo 'Traceback (most recent call last):' >&2\necho 'ValueError: invalid literal' >&2\nexit 1\n"
	outcome := sr.Run(context.Background(), code, "", "", 1000)
	if outcome.Passed || outcome.TimedOut {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.ErrorType != domain.ErrorTypeValueError {
		t.Fatalf("expected VALUE_ERROR, got %q", outcome.ErrorType)
	}
	if !strings.Contains(outcome.Error, "ValueError") {
		t.Fatalf("expected stderr in error, got %q", outcome.Error)
	}
	sr.assertArtifactsRemoved(t)
}

func TestRunErrorMessageIsTruncated(t *testing.T) {
	sr := newShellRunner(t)

	code := "i=0\nwhile [ $i -lt 50 ]; do printf 'xxxxxxxxxx' >&2; i=$((i+1)); done\nexit 2\n"
	outcome := sr.Run(context.Background(), code, "", "", 1000)
	if len(outcome.Error) != 200 {
		t.Fatalf("expected 200 chars of stderr, got %d", len(outcome.Error))
	}
	if outcome.ErrorType != domain.ErrorTypeRuntime {
		t.Fatalf("expected RUNTIME, got %q", outcome.ErrorType)
	}
}

func TestRunNonZeroExitWithoutStderr(t *testing.T) {
	sr := newShellRunner(t)

	outcome := sr.Run(context.Background(), "exit 3", "", "", 1000)
	if outcome.Error != "process exited with code 3" {
		t.Fatalf("unexpected error %q", outcome.Error)
	}
	if outcome.ErrorType != domain.ErrorTypeRuntime {
		t.Fatalf("expected RUNTIME, got %q", outcome.ErrorType)
	}
}

func TestRunTimeout(t *testing.T) {
	sr := newShellRunner(t)

	start := time.Now()
	outcome := sr.Run(context.Background(), "while :; do :; done", "", "", 50)
	if !outcome.TimedOut || outcome.Passed {
		t.Fatalf("expected timeout, got %+v", outcome)
	}
	if outcome.ErrorType != domain.ErrorTypeTimeout {
		t.Fatalf("expected TIMEOUT, got %q", outcome.ErrorType)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("timeout took too long: %v", elapsed)
	}
	if len(sr.removed) != 1 {
		t.Fatalf("expected container removal after kill, got %v", sr.removed)
	}
	sr.assertArtifactsRemoved(t)
}

func TestRunTimeoutEscalatesToKill(t *testing.T) {
	sr := newShellRunner(t)

	outcome := sr.Run(context.Background(), "trap '' TERM\nwhile :; do :; done\n", "", "", 50)
	if !outcome.TimedOut {
		t.Fatalf("expected timeout, got %+v", outcome)
	}
	sr.assertArtifactsRemoved(t)
}

func TestRunCancelledContext(t *testing.T) {
	sr := newShellRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := sr.Run(ctx, "while :; do :; done", "", "", 10000)
	if outcome.TimedOut {
		t.Fatal("cancellation is not a timeout")
	}
	if outcome.Error != cancelledMessage || outcome.ErrorType != domain.ErrorTypeRuntime {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	sr.assertArtifactsRemoved(t)
}

func TestRunStartFailureBecomesRuntime(t *testing.T) {
	sr := newShellRunner(t)
	sr.command = func(artifactPath, containerName string) *exec.Cmd {
		sr.artifacts = append(sr.artifacts, artifactPath)
		return exec.Command("/nonexistent/docker")
	}

	outcome := sr.Run(context.Background(), "print(1)", "", "1", 1000)
	if outcome.Passed || outcome.Error == "" {
		t.Fatalf("expected runtime failure, got %+v", outcome)
	}
	if outcome.ErrorType != domain.ErrorTypeRuntime {
		t.Fatalf("expected RUNTIME, got %q", outcome.ErrorType)
	}
	sr.assertArtifactsRemoved(t)
}

func TestRunArtifactSetupFailureBecomesRuntime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArtifactDir = "/nonexistent/dir/for/artifacts"
	r := NewRunner(cfg, nopLogger{})

	outcome := r.Run(context.Background(), "print(1)", "", "1", 1000)
	if outcome.ErrorType != domain.ErrorTypeRuntime || outcome.Error == "" {
		t.Fatalf("expected runtime failure, got %+v", outcome)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	sr := newShellRunner(t)
	sr.command = func(artifactPath, containerName string) *exec.Cmd {
		panic("boom")
	}

	outcome := sr.Run(context.Background(), "echo 1", "", "1", 1000)
	if outcome.ErrorType != domain.ErrorTypeRuntime || !strings.Contains(outcome.Error, "boom") {
		t.Fatalf("expected recovered runtime outcome, got %+v", outcome)
	}
}
