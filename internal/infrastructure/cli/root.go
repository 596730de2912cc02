// Package cli wires the cobra command tree and owns everything that touches
// the terminal: prompting, rendering, the spinner, and exit codes.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okzu/shellm/internal/app"
	"github.com/okzu/shellm/internal/infrastructure/cli/commands"
	"github.com/okzu/shellm/internal/services"
)

// Options holds process-level settings main resolves before cobra parses
// (the logger and config are needed to build the container, which happens
// before flag parsing).
type Options struct {
	Verbose    bool
	ConfigPath string
}

// ExitError carries a specific process exit code through cobra's error
// return. A nil Err exits silently with the code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewRootCmd builds the container and the command tree. The bare root is the
// ask flow: `shellm list all docker containers`.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, app.BuildOptions{
		ConfigPath: opts.ConfigPath,
		Verbose:    opts.Verbose,
	})
	if err != nil {
		return nil, err
	}

	clip := NewClipboard()
	container.AskService.Prompter = NewPrompter(nil, nil)
	container.AskService.Clipboard = clip
	container.DoctorService.Clipboard = clip
	cobra.OnFinalize(container.Logger.Sync)

	var (
		model      string
		autoRun    bool
		preview    bool
		noContext  bool
		copyToClip bool
		timeout    time.Duration
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "shellm [request]",
		Short: "shellm turns natural language into confirmed shell commands",
		Long: `shellm asks a configured language model to translate a natural-language
request into a shell command, shows the suggestion with a risk assessment,
and runs it only after confirmation (or with an explicit --yes).`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			askOpts := services.Options{
				Model:       model,
				AutoRun:     autoRun,
				PreviewOnly: preview,
				NoContext:   noContext,
				Copy:        copyToClip,
				Timeout:     timeout,
			}
			return runAsk(cmd.Context(), cmd.OutOrStdout(), container.AskService, strings.Join(args, " "), askOpts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// --verbose and --config are consumed by main before construction; they
	// are declared here so parsing and help stay consistent.
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.shellm/config.yaml)")

	root.Flags().StringVarP(&model, "model", "m", "", "Model name from config (default: default_models order)")
	root.Flags().BoolVarP(&autoRun, "yes", "y", false, "Run the command without interactive confirmation")
	root.Flags().BoolVarP(&preview, "preview-only", "p", false, "Show the command without running it")
	root.Flags().BoolVar(&noContext, "no-context", false, "Skip the context decision and gather nothing")
	root.Flags().BoolVarP(&copyToClip, "copy", "c", false, "Copy the suggested command to the clipboard")
	root.Flags().DurationVar(&timeout, "timeout", 0, "Execution timeout (default from config)")

	root.AddCommand(
		commands.NewHistoryCommand(container),
		commands.NewModelsCommand(container),
		commands.NewConfigCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewGuardrailCommand(container),
		commands.NewCacheCommand(container),
		commands.NewVersionCommand(),
	)
	return root, nil
}
