package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// Prompter implements ConfirmationPrompter on stdio. Interactivity is
// decided once at construction from whether stdin is a terminal.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter constructs a prompter. Nil arguments mean real stdio; an
// injected reader is treated as interactive so tests can drive it.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := true
	if in == nil {
		in = os.Stdin
		fd := os.Stdin.Fd()
		interactive = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Interactive reports whether a human can answer prompts.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Confirm asks before execution. Risky commands print their assessment
// first; explicit_confirm demands the word "yes" rather than a single key.
func (p *Prompter) Confirm(action domain.GuardrailAction, level domain.RiskLevel, command string, reasons []string) (bool, error) {
	if level != "" && level != domain.RiskSafe {
		fmt.Fprintf(p.out, "\n⚠️  %s risk (%s)\n", strings.ToUpper(string(level)), action)
		for _, reason := range reasons {
			fmt.Fprintf(p.out, " - %s\n", reason)
		}
	}

	if action == domain.ActionExplicitConfirm {
		fmt.Fprint(p.out, "Type 'yes' to run this command: ")
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		return line == "yes", nil
	}

	fmt.Fprint(p.out, "Run this command? [y/N]: ")
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	line = strings.ToLower(line)
	return line == "y" || line == "yes", nil
}

// FollowUp reads the next request in an interactive session. Empty input or
// a closed stdin ends the session.
func (p *Prompter) FollowUp() (string, error) {
	fmt.Fprint(p.out, "\nFollow-up request (Enter to finish): ")
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
