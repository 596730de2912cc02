// Package executor runs approved commands through the host shell.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// waitDelay bounds how long Wait blocks on inherited pipes after the
// process itself was killed.
const waitDelay = 5 * time.Second

// Shell executes commands via `<shell> -c <command>`, capturing stdout and
// stderr separately. Stdin is inherited so prompts inside the command (sudo,
// ssh) still work.
type Shell struct {
	shell          string
	defaultTimeout time.Duration
}

// NewShell builds an executor. An empty shell falls back to $SHELL, then
// /bin/sh; a zero default timeout falls back to 30s.
func NewShell(shell string, defaultTimeout time.Duration) *Shell {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	if defaultTimeout <= 0 {
		defaultTimeout = 30 * time.Second
	}
	return &Shell{shell: shell, defaultTimeout: defaultTimeout}
}

// Execute runs the command and reports what happened rather than failing on
// it: a nonzero exit lands in ExitCode with a nil error, and hitting the
// timeout sets TimedOut with the sentinel exit code. The returned error is
// reserved for cancellation of the parent context and for failures to start
// the process at all.
func (s *Shell) Execute(ctx context.Context, command string, timeout time.Duration) (domain.ExecutionResult, error) {
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, s.shell, "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = os.Stdin
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()

	result := domain.ExecutionResult{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: time.Since(start).Milliseconds(),
	}

	if err == nil {
		result.Ran = true
		return result, nil
	}
	if ctx.Err() != nil {
		result.ExitCode = domain.ExitCodeUnknown
		return result, ctx.Err()
	}
	if errors.Is(cctx.Err(), context.DeadlineExceeded) {
		result.Ran = true
		result.TimedOut = true
		result.ExitCode = domain.ExitCodeUnknown
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.Ran = true
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	result.ExitCode = domain.ExitCodeUnknown
	return result, err
}

var _ ports.CommandExecutor = (*Shell)(nil)
