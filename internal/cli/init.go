package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	var noSeed bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize boards storage",
		Long:  "Create the configuration and data directories, initialize the database\nand add the built-in Status, Done, Due and Notes fields with a Board view.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seeded := false
			if !noSeed {
				var err error
				if seeded, err = a.store.Seed(); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
			}
			a.logger.Info("initialized", "seeded", seeded)

			if a.flags.jsonMode {
				return printJSON(cmd, map[string]any{
					"config_dir": a.settings.ConfigDir,
					"data_dir":   a.settings.DataDir,
					"seeded":     seeded,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Boards initialized successfully")
			fmt.Fprintln(out, "  config:", a.settings.ConfigDir)
			fmt.Fprintln(out, "  data:  ", a.settings.DataDir)
			if seeded {
				fmt.Fprintln(out, "  added built-in fields and the Board view")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "do not add the built-in fields")
	return cmd
}
