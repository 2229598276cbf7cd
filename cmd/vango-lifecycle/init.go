package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/lifecycle/internal/config"
)

func initCmd(dir *string) *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file holding the defaults.

Examples:
  vango-lifecycle init
  vango-lifecycle init --format=yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := config.ConfigFileName
			switch format {
			case "json":
			case "yaml":
				name = "lifecycle.yaml"
			default:
				return fmt.Errorf("unknown format %q", format)
			}

			path := filepath.Join(*dir, name)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "File format: json or yaml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
