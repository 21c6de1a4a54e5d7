package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/sqlite"
)

// rowsPath returns args[0] or the rows file inside the data directory.
func (a *app) rowsPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return filepath.Join(a.settings.DataDir, sqlite.RowsFile)
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import rows from a JSONL file",
		Long:  "Import rows from a JSONL file (default: rows.jsonl in the data directory).\nMalformed lines and rows the store rejects are skipped.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.rowsPath(args)
			imported, skipped, err := a.store.ImportRows(path)
			if err != nil {
				return err
			}
			a.logger.Info("rows imported", "path", path, "imported", imported, "skipped", skipped)
			if a.flags.jsonMode {
				return printJSON(cmd, map[string]any{"path": path, "imported": imported, "skipped": skipped})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows from %s (%d skipped)\n", imported, path, skipped)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export rows to a JSONL file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.rowsPath(args)
			n, err := a.store.ExportRows(path)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd, map[string]any{"path": path, "exported": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", n, path)
			return nil
		},
	}
}
