package docker

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type runResult struct {
	stdout          string
	stderr          string
	stdoutTruncated bool
	exitCode        int
	timedOut        bool
	cancelled       bool
}

// sandbox owns the resources of one execution: the artifact file, the
// process and the container name. release must run on every path.
type sandbox struct {
	runner   *Runner
	artifact string
	name     string
	cmd      *exec.Cmd
	done     chan error
	exited   bool
	killed   bool
}

func (r *Runner) newSandbox(code string) (*sandbox, error) {
	file, err := os.CreateTemp(r.cfg.ArtifactDir, "solution-*.py")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create solution file")
	}
	box := &sandbox{
		runner:   r,
		artifact: file.Name(),
		name:     "judge-" + uuid.NewString(),
		done:     make(chan error, 1),
	}

	if _, err := file.WriteString(code); err != nil {
		_ = file.Close()
		box.release()
		return nil, errors.Wrap(err, "failed to write solution file")
	}
	if err := file.Close(); err != nil {
		box.release()
		return nil, errors.Wrap(err, "failed to close solution file")
	}
	// containers may run as a non-root user
	if err := os.Chmod(box.artifact, 0o644); err != nil {
		box.release()
		return nil, errors.Wrap(err, "failed to chmod solution file")
	}

	return box, nil
}

// execute starts the process and waits for it at most budget
func (b *sandbox) execute(ctx context.Context, input string, budget time.Duration) (runResult, error) {
	cfg := b.runner.cfg
	stdout := newCappedBuffer(cfg.MaxOutputBytes)
	stderr := newCappedBuffer(maxStderrBytes)

	cmd := b.runner.command(b.artifact, b.name)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = cfg.KillWait

	if err := cmd.Start(); err != nil {
		return runResult{}, errors.Wrap(err, "failed to start sandbox")
	}
	b.cmd = cmd
	go func() {
		b.done <- cmd.Wait()
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case err := <-b.done:
		b.exited = true
		res := runResult{
			stdout:          stdout.String(),
			stderr:          stderr.String(),
			stdoutTruncated: stdout.Truncated(),
		}
		if err == nil {
			return res, nil
		}
		if code, ok := exitCode(err); ok {
			res.exitCode = code
			return res, nil
		}
		// output pipes held open past WaitDelay by a grandchild
		if cmd.ProcessState != nil && cmd.ProcessState.Success() {
			return res, nil
		}
		return runResult{}, errors.Wrap(err, "sandbox wait failed")
	case <-timer.C:
		b.terminate()
		return runResult{timedOut: true}, nil
	case <-ctx.Done():
		b.terminate()
		return runResult{cancelled: true}, nil
	}
}

// terminate asks the process to stop, then kills it after KillWait
func (b *sandbox) terminate() {
	if b.cmd == nil || b.exited {
		return
	}
	b.killed = true

	_ = b.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-b.done:
	case <-time.After(b.runner.cfg.KillWait):
		_ = b.cmd.Process.Kill()
		<-b.done
	}
	b.exited = true
}

func (b *sandbox) release() {
	b.terminate()
	if b.killed && b.runner.removeContainer != nil {
		b.runner.removeContainer(b.name)
	}
	if err := os.Remove(b.artifact); err != nil && !os.IsNotExist(err) {
		b.runner.logger.Warn("Failed to remove solution file", "path", b.artifact, "error", err)
	}
}
