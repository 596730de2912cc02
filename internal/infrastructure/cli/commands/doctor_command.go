package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okzu/shellm/internal/app"
	"github.com/okzu/shellm/internal/domain"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, models, guardrail, shell, and storage health",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())

			// Show whatever was checked even when the run aborted early.
			displayReport(cmd.OutOrStdout(), report)

			if err != nil {
				return fmt.Errorf("diagnostics incomplete: %w", err)
			}
			if !report.Healthy() {
				return fmt.Errorf("some checks failed")
			}
			return nil
		},
	}
}

func displayReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "%s %-12s %s\n", statusGlyph(check.Status), check.Name, check.Detail)
	}
}

func statusGlyph(status domain.CheckStatus) string {
	switch status {
	case domain.CheckOK:
		return "[ ok ]"
	case domain.CheckWarn:
		return "[warn]"
	default:
		return "[FAIL]"
	}
}
