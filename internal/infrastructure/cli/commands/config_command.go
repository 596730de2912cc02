package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okzu/shellm/internal/app"
	"github.com/okzu/shellm/internal/domain"
)

// NewConfigCommand creates the config command with its subcommands.
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the loaded configuration",
	}

	configCmd.AddCommand(
		newConfigShowCommand(container),
		newConfigPathCommand(container),
	)

	return configCmd
}

func newConfigShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with defaults applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(redactSecrets(container.Config))
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", container.ConfigPath, data)
			return nil
		},
	}
}

func newConfigPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigPath)
			return nil
		},
	}
}

// redactSecrets replaces inline API keys before printing. The maps are copied
// so the container's config stays intact.
func redactSecrets(cfg domain.Config) domain.Config {
	providers := make(map[string]domain.ProviderConfig, len(cfg.Providers))
	for name, p := range cfg.Providers {
		if p.APIKey != "" {
			p.APIKey = "[redacted]"
		}
		providers[name] = p
	}
	cfg.Providers = providers

	models := make(map[string]domain.ModelConfig, len(cfg.Models))
	for name, m := range cfg.Models {
		if m.APIKey != "" {
			m.APIKey = "[redacted]"
		}
		models[name] = m
	}
	cfg.Models = models

	return cfg
}
