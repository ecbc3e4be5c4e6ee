package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage agendapdf configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Display the effective configuration after merging defaults, config file, env vars and flags.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if used := a.v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n", used)
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), "No configuration file found (using defaults)")
			}

			yamlData, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(yamlData)
			return err
		},
	})
	return configCmd
}
