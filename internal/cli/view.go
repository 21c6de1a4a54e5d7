package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/group"
	"github.com/mesh-intelligence/boards/pkg/types"
)

func newViewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Manage views and show grouped boards",
	}
	cmd.AddCommand(
		newViewCreateCmd(a),
		newViewListCmd(a),
		newViewShowCmd(a),
		newViewSetFieldCmd(a),
		newViewMoveGroupCmd(a),
		newViewMoveRowCmd(a),
	)
	return cmd
}

// board is the JSON form of a grouped view.
type board struct {
	View   *types.View   `json:"view"`
	Groups []group.Group `json:"groups"`
}

// showBoard prints the current groups of v.
func (a *app) showBoard(ctx context.Context, cmd *cobra.Command, v *types.View) error {
	groups, err := a.svc.Groups(ctx, v.ViewID)
	if err != nil {
		return err
	}
	if a.flags.jsonMode {
		return printJSON(cmd, board{View: v, Groups: groups})
	}
	printBoard(cmd.OutOrStdout(), v, groups)
	return nil
}

func newViewCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <field>",
		Short: "Create a view grouped by a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.field(args[1])
			if err != nil {
				return err
			}
			v, err := a.svc.CreateView(args[0], f.FieldID)
			if err != nil {
				return err
			}
			return a.showBoard(cmd.Context(), cmd, v)
		},
	}
}

func newViewListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := a.store.Views().List()
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd, views)
			}
			return printViews(cmd.OutOrStdout(), views)
		},
	}
}

func newViewShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <view>",
		Short: "Show the rows of a view grouped by its field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.view(args[0])
			if err != nil {
				return err
			}
			return a.showBoard(cmd.Context(), cmd, v)
		},
	}
}

func newViewSetFieldCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-field <view> <field>",
		Short: "Group a view by another field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.view(args[0])
			if err != nil {
				return err
			}
			f, err := a.field(args[1])
			if err != nil {
				return err
			}
			if _, err := a.svc.SetViewField(cmd.Context(), v.ViewID, f.FieldID); err != nil {
				return err
			}
			v.FieldID = f.FieldID
			return a.showBoard(cmd.Context(), cmd, v)
		},
	}
}

func newViewMoveGroupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move-group <view> <group> <target-group>",
		Short: "Move a group to the position of another group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v, err := a.view(args[0])
			if err != nil {
				return err
			}
			from, err := a.groupID(ctx, v.ViewID, args[1])
			if err != nil {
				return err
			}
			to, err := a.groupID(ctx, v.ViewID, args[2])
			if err != nil {
				return err
			}
			if _, err := a.svc.MoveGroup(ctx, v.ViewID, from, to); err != nil {
				return err
			}
			return a.showBoard(ctx, cmd, v)
		},
	}
}

func newViewMoveRowCmd(a *app) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "move-row <view> <row-id> <from-group> <to-group>",
		Short: "Move a row between groups without changing its cells",
		Long:  "Move a row between groups of a view. The placement lasts while the view\nis open; the row returns to the group of its value the next time the\nview is loaded.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v, err := a.view(args[0])
			if err != nil {
				return err
			}
			from, err := a.groupID(ctx, v.ViewID, args[2])
			if err != nil {
				return err
			}
			to, err := a.groupID(ctx, v.ViewID, args[3])
			if err != nil {
				return err
			}
			ev, err := a.svc.MoveRow(ctx, v.ViewID, group.MoveGroupRowContext{
				RowID:       args[1],
				FromGroupID: from,
				ToGroupID:   to,
				ToIndex:     index,
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd, ev)
			}
			groups, err := a.svc.Groups(ctx, v.ViewID)
			if err != nil {
				return err
			}
			printBoard(cmd.OutOrStdout(), v, groups)
			return nil
		},
	}
	cmd.Flags().IntVar(&index, "index", -1, "position in the target group (default: end)")
	return cmd
}
