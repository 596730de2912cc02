// Package commands holds the cobra subcommands under the shellm root.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/okzu/shellm/internal/app"
	"github.com/okzu/shellm/internal/domain"
)

// NewHistoryCommand creates the history command with its subcommands.
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past requests and the commands they produced",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf("history is disabled in the config")
			}
			records, err := container.HistoryStore.Records(limit, "")
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			displayHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultHistoryLimit, "Maximum entries to show")
	return cmd
}

func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find history entries whose request or command matches a term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf("history is disabled in the config")
			}
			records, err := container.HistoryStore.Records(limit, args[0])
			if err != nil {
				return fmt.Errorf("search history: %w", err)
			}
			displayHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultHistoryLimit, "Maximum entries to show")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf("history is disabled in the config")
			}
			if err := container.HistoryStore.Clear(); err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write the full history as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf("history is disabled in the config")
			}
			if err := container.HistoryStore.ExportJSON(args[0]); err != nil {
				return fmt.Errorf("export history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History exported to %s\n", args[0])
			return nil
		},
	}
}

// displayHistory renders records newest first, one line each.
func displayHistory(out io.Writer, records []domain.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No history entries.")
		return
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  %s\n", humanize.Time(rec.Timestamp), rec.Request)
		fmt.Fprintf(out, "    $ %s%s\n", rec.Command, historyMarkers(rec))
	}
}

func historyMarkers(rec domain.HistoryRecord) string {
	var marks []string
	if rec.RiskLevel != "" && rec.RiskLevel != domain.RiskSafe {
		marks = append(marks, string(rec.RiskLevel))
	}
	switch {
	case rec.TimedOut:
		marks = append(marks, "timed out")
	case !rec.Executed:
		marks = append(marks, "not run")
	case rec.ExitCode > 0:
		marks = append(marks, fmt.Sprintf("exit %d", rec.ExitCode))
	}
	if len(marks) == 0 {
		return ""
	}
	return "  [" + strings.Join(marks, ", ") + "]"
}
