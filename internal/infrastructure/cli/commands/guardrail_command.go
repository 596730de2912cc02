package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okzu/shellm/internal/app"
	"github.com/okzu/shellm/internal/domain"
)

// NewGuardrailCommand creates the guardrail command with its subcommands.
func NewGuardrailCommand(container *app.Container) *cobra.Command {
	guardrailCmd := &cobra.Command{
		Use:   "guardrail",
		Short: "Inspect the command screening rules",
	}

	guardrailCmd.AddCommand(
		newGuardrailStatusCommand(container),
		newGuardrailListCommand(container),
		newGuardrailCheckCommand(container),
	)

	return guardrailCmd
}

func newGuardrailStatusCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether screening is enabled and how many rules loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			state := "disabled"
			if container.Config.Security.Enabled {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Guardrail is %s (%d rules loaded).\n", state, len(container.Guardrail.Rules()))
			if !container.Config.Security.Enabled {
				fmt.Fprintln(out, "Set security.enabled: true in the config to screen commands.")
			}
			return nil
		},
	}
}

func newGuardrailListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the loaded rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := container.Guardrail.Rules()
			if len(rules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rules loaded.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LEVEL\tACTION\tPATTERN\tMESSAGE")
			for _, rule := range rules {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rule.Level, rule.Action, rule.Pattern, rule.Message)
			}
			return w.Flush()
		},
	}
}

func newGuardrailCheckCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "check <command...>",
		Short: "Evaluate a command against the rules without running it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			assessment, err := container.Guardrail.Evaluate(command)
			if err != nil {
				return fmt.Errorf("evaluate command: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "command: %s\n", command)
			fmt.Fprintf(out, "risk:    %s\n", assessment.Level)
			fmt.Fprintf(out, "action:  %s\n", assessment.Action)
			for _, reason := range assessment.Reasons {
				fmt.Fprintf(out, "  - %s\n", reason)
			}
			if assessment.Action == domain.ActionBlock {
				return fmt.Errorf("command would be blocked")
			}
			return nil
		},
	}
}
