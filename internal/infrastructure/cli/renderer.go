package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/services"
)

// Render prints a resolved suggestion in a plain, ASCII-only format.
func Render(out io.Writer, res services.Result) {
	fmt.Fprintf(out, "\n  %s\n", res.Suggestion.Command)
	if res.Suggestion.Explanation != "" {
		fmt.Fprintf(out, "\n  %s\n", res.Suggestion.Explanation)
	}

	if res.Assessment.Level != "" && res.Assessment.Level != domain.RiskSafe {
		fmt.Fprintf(out, "\nRisk: %s (%s)\n", strings.ToUpper(string(res.Assessment.Level)), res.Assessment.Action)
		for _, reason := range res.Assessment.Reasons {
			fmt.Fprintf(out, " - %s\n", reason)
		}
	}
	if res.ContextFellBack {
		fmt.Fprintln(out, "\nNote: the model's context decision was unreadable; generated without local context.")
	}
	if res.AllowListed {
		fmt.Fprintln(out, "\n(allow-listed command, runs without confirmation)")
	}
}

// RenderExecution prints captured output and the outcome line.
func RenderExecution(out io.Writer, result domain.ExecutionResult) {
	if stdout := strings.TrimRight(result.Stdout, "\n"); stdout != "" {
		fmt.Fprintf(out, "\n%s\n", stdout)
	}
	if stderr := strings.TrimRight(result.Stderr, "\n"); stderr != "" {
		fmt.Fprintf(out, "\n%s\n", stderr)
	}
	switch {
	case result.TimedOut:
		fmt.Fprintln(out, "\nCommand timed out; partial output shown above.")
	case !result.Ran:
		fmt.Fprintln(out, "\nCommand could not be started.")
	case result.ExitCode != 0:
		fmt.Fprintf(out, "\nExit code: %d\n", result.ExitCode)
	}
}
