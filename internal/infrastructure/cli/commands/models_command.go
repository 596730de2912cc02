package commands

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okzu/shellm/internal/app"
)

// NewModelsCommand creates the models command.
func NewModelsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List configured models and the default fallback order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := container.Config
			if len(cfg.Models) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No models configured.")
				return nil
			}

			names := make([]string, 0, len(cfg.Models))
			for name := range cfg.Models {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPROVIDER\tMODEL\tCONTEXT\tDEFAULT")
			for _, name := range names {
				m := cfg.Models[name]
				kind := m.Provider
				if _, resolved, err := cfg.ProviderFor(m); err == nil {
					kind = resolved
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					name, kind, m.Model, contextSummary(m.IncludePathCommands, m.IncludeHistoryContext), defaultMarker(cfg.DefaultModels, name))
			}
			return w.Flush()
		},
	}
}

func contextSummary(commands, history bool) string {
	var parts []string
	if commands {
		parts = append(parts, "commands")
	}
	if history {
		parts = append(parts, "history")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

// defaultMarker shows the model's position in the fallback chain, or "-" when
// it is only reachable through --model.
func defaultMarker(defaults []string, name string) string {
	for i, candidate := range defaults {
		if candidate == name {
			return fmt.Sprintf("%d", i+1)
		}
	}
	return "-"
}
