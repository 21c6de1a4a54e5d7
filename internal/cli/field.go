package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func newFieldCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Manage fields",
	}
	cmd.AddCommand(
		newFieldCreateCmd(a),
		newFieldListCmd(a),
		newFieldShowCmd(a),
		newFieldAddOptionCmd(a),
		newFieldRenameOptionCmd(a),
		newFieldDeleteOptionCmd(a),
		newFieldMoveOptionCmd(a),
		newFieldSetTypeCmd(a),
	)
	return cmd
}

// showField prints a field in the selected output mode.
func (a *app) showField(cmd *cobra.Command, f *types.Field) error {
	if a.flags.jsonMode {
		return printJSON(cmd, f)
	}
	printField(cmd.OutOrStdout(), f)
	return nil
}

func newFieldCreateCmd(a *app) *cobra.Command {
	var (
		valueType   string
		granularity string
		options     []string
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a field",
		Example: `  boards field create Priority --type categorical --option Low --option High
  boards field create Due --type timestamp --granularity day`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &types.Field{Name: args[0], ValueType: valueType, DateGranularity: granularity}
			for i, name := range options {
				f.Options = append(f.Options, types.Option{Name: name, Ordinal: i})
			}
			created, err := a.svc.CreateField(f)
			if err != nil {
				return err
			}
			return a.showField(cmd, created)
		},
	}
	cmd.Flags().StringVar(&valueType, "type", types.ValueTypeText, "value type: categorical, text, integer, boolean, timestamp or list")
	cmd.Flags().StringVar(&granularity, "granularity", "", "date granularity for timestamp fields: day, month or year")
	cmd.Flags().StringArrayVar(&options, "option", nil, "option of a categorical field (repeatable)")
	return cmd
}

func newFieldListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := a.store.Fields().List()
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd, fields)
			}
			return printFields(cmd.OutOrStdout(), fields)
		},
	}
}

func newFieldShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <field>",
		Short: "Show a field and its options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.field(args[0])
			if err != nil {
				return err
			}
			return a.showField(cmd, f)
		},
	}
}

func newFieldAddOptionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-option <field> <name>",
		Short: "Add an option to a categorical field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.field(args[0])
			if err != nil {
				return err
			}
			updated, err := a.svc.AddOption(cmd.Context(), f.FieldID, args[1])
			if err != nil {
				return err
			}
			return a.showField(cmd, updated)
		},
	}
}

func newFieldRenameOptionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename-option <field> <option> <name>",
		Short: "Rename an option",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.field(args[0])
			if err != nil {
				return err
			}
			updated, err := a.svc.RenameOption(cmd.Context(), f.FieldID, args[1], args[2])
			if err != nil {
				return err
			}
			return a.showField(cmd, updated)
		},
	}
}

func newFieldDeleteOptionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-option <field> <option>",
		Short: "Delete an option; rows holding it become ungrouped",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.field(args[0])
			if err != nil {
				return err
			}
			updated, err := a.svc.DeleteOption(cmd.Context(), f.FieldID, args[1])
			if err != nil {
				return err
			}
			return a.showField(cmd, updated)
		},
	}
}

func newFieldMoveOptionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move-option <field> <option> <position>",
		Short: "Move an option to a zero-based position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("%w: position %q is not a number", errUsage, args[2])
			}
			f, err := a.field(args[0])
			if err != nil {
				return err
			}
			updated, err := a.svc.MoveOption(cmd.Context(), f.FieldID, args[1], pos)
			if err != nil {
				return err
			}
			return a.showField(cmd, updated)
		},
	}
}

func newFieldSetTypeCmd(a *app) *cobra.Command {
	var granularity string
	cmd := &cobra.Command{
		Use:   "set-type <field> <type>",
		Short: "Change the value type of a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.field(args[0])
			if err != nil {
				return err
			}
			updated, err := a.svc.SetFieldType(cmd.Context(), f.FieldID, args[1], granularity)
			if err != nil {
				return err
			}
			return a.showField(cmd, updated)
		},
	}
	cmd.Flags().StringVar(&granularity, "granularity", "", "date granularity for timestamp fields: day, month or year")
	return cmd
}
