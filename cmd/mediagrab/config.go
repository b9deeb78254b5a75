package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediagrab/internal/config"
)

// newConfigCmd prints the settings serve would run with. It accepts the
// same flags as serve.
func newConfigCmd() *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show effective settings (secrets masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(f.configPath)
			if err != nil {
				return err
			}
			cfg, err := config.Resolve(config.Options{
				Path:      path,
				EnvFile:   f.envFile,
				Overrides: f.overrides(cmd.Flags().Changed),
			})
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			out := cmd.OutOrStdout()
			if path != "" {
				fmt.Fprintf(out, "# from %s\n", path)
			}
			return cfg.Encode(out)
		},
	}
	f.register(cmd)
	return cmd
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}
