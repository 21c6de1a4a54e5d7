package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func newRowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "row",
		Short: "Manage rows",
	}
	cmd.AddCommand(
		newRowAddCmd(a),
		newRowListCmd(a),
		newRowSetCmd(a),
		newRowDeleteCmd(a),
	)
	return cmd
}

func (a *app) showRow(cmd *cobra.Command, r *types.Row) error {
	if a.flags.jsonMode {
		return printJSON(cmd, r)
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.RowID)
	return nil
}

func newRowAddCmd(a *app) *cobra.Command {
	var viewRef, groupRef string
	cmd := &cobra.Command{
		Use:   "add <name> [field=value...]",
		Short: "Add a row",
		Long:  "Add a row with the given cell values. With --view and --group the row\nis placed in that group, setting its grouping cell accordingly.",
		Example: `  boards row add "Write docs" Status=Todo
  boards row add "Ship it" --view Board --group Doing`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (viewRef == "") != (groupRef == "") {
				return fmt.Errorf("%w: --view and --group go together", errUsage)
			}
			cells, err := a.parseAssignments(args[1:])
			if err != nil {
				return err
			}
			var viewID, groupID string
			if viewRef != "" {
				v, err := a.view(viewRef)
				if err != nil {
					return err
				}
				viewID = v.ViewID
				if groupID, err = a.groupID(cmd.Context(), viewID, groupRef); err != nil {
					return err
				}
			}
			row, err := a.svc.AddRow(cmd.Context(), viewID, groupID, args[0], cells)
			if err != nil {
				return err
			}
			return a.showRow(cmd, row)
		},
	}
	cmd.Flags().StringVar(&viewRef, "view", "", "view whose group receives the row")
	cmd.Flags().StringVar(&groupRef, "group", "", "group ID or name within --view")
	return cmd
}

func newRowListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rows in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.store.Rows().List()
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd, rows)
			}
			return printRows(cmd.OutOrStdout(), rows)
		},
	}
}

func newRowSetCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "set <row-id> [field=value...]",
		Short: "Set cells of a row; an empty value clears the cell",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && name == "" {
				return fmt.Errorf("%w: nothing to set", errUsage)
			}
			cells, err := a.parseAssignments(args[1:])
			if err != nil {
				return err
			}
			var row *types.Row
			if name != "" {
				if row, err = a.svc.RenameRow(args[0], name); err != nil {
					return err
				}
			}
			if len(cells) > 0 {
				if row, err = a.svc.UpdateRow(args[0], cells); err != nil {
					return err
				}
			}
			return a.showRow(cmd, row)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new row name")
	return cmd
}

func newRowDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <row-id>",
		Short: "Delete a row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.DeleteRow(args[0]); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd, map[string]string{"deleted": args[0]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
			return nil
		},
	}
}
