package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/okzu/shellm/internal/services"
)

// Exit codes for the ask flow. An executed command's own exit code wins;
// these cover the pipeline around it.
const (
	exitBlocked  = 1
	exitTimedOut = 124
	exitPipeline = 125
	exitSignal   = 130
)

// runAsk drives one request through suggest, confirm, execute, and then
// loops on follow-ups while the terminal is interactive.
func runAsk(ctx context.Context, out io.Writer, svc *services.AskService, request string, opts services.Options) error {
	sess, err := svc.NewSession(ctx, opts)
	if err != nil {
		return pipelineError(err)
	}

	exitCode := 0
	for {
		res, err := askWithSpinner(ctx, sess, request)
		if err != nil {
			return pipelineError(err)
		}
		Render(out, res)

		result, err := sess.Execute(ctx, res)
		if result != nil {
			RenderExecution(out, *result)
		}
		if err != nil {
			return pipelineError(err)
		}

		exitCode = 0
		if result != nil {
			if result.TimedOut {
				exitCode = exitTimedOut
			} else {
				exitCode = result.ExitCode
			}
		}

		if !sess.Interactive() {
			break
		}
		next, err := sess.FollowUp()
		if err != nil {
			return pipelineError(err)
		}
		if next == "" {
			break
		}
		request = next
	}

	if exitCode != 0 {
		return &ExitError{Code: exitCode}
	}
	return nil
}

// askWithSpinner shows progress on stderr while the model works, but only
// when stderr is a terminal so piped output stays clean.
func askWithSpinner(ctx context.Context, sess *services.Session, request string) (services.Result, error) {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		spin := NewSpinner(os.Stderr, "thinking")
		spin.Start()
		defer spin.Stop()
	}
	return sess.Ask(ctx, request)
}

// pipelineError maps ask-flow failures onto process exit codes.
func pipelineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return &ExitError{Code: exitSignal}
	case errors.Is(err, services.ErrBlocked):
		return &ExitError{Code: exitBlocked, Err: err}
	default:
		return &ExitError{Code: exitPipeline, Err: err}
	}
}
