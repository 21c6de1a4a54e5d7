package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/group"
	"github.com/mesh-intelligence/boards/pkg/types"
)

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printField(w io.Writer, f *types.Field) {
	fmt.Fprintf(w, "%s  %s  (%s)\n", f.FieldID, f.Name, f.ValueType)
	if f.ValueType == types.ValueTypeTimestamp {
		fmt.Fprintf(w, "  granularity: %s\n", f.Granularity())
	}
	for _, o := range f.SortedOptions() {
		fmt.Fprintf(w, "  %d. %s  %s\n", o.Ordinal, o.Name, o.OptionID)
	}
}

func printFields(w io.Writer, fields []*types.Field) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tOPTIONS")
	for _, f := range fields {
		names := make([]string, 0, len(f.Options))
		for _, o := range f.SortedOptions() {
			names = append(names, o.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.FieldID, f.Name, f.ValueType, strings.Join(names, ", "))
	}
	return tw.Flush()
}

func printRows(w io.Writer, rows []*types.Row) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCELLS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.RowID, r.Name, len(r.Cells))
	}
	return tw.Flush()
}

func printViews(w io.Writer, views []*types.View) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tFIELD")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.ViewID, v.Name, v.FieldID)
	}
	return tw.Flush()
}

// printBoard prints each group with its rows indented beneath it.
func printBoard(w io.Writer, v *types.View, groups []group.Group) {
	fmt.Fprintf(w, "%s (%s)\n", v.Name, v.ViewID)
	for _, g := range groups {
		name := g.Name
		if g.IsDefault {
			name = "(none)"
		}
		fmt.Fprintf(w, "\n%s [%s] %d\n", name, g.GroupID, len(g.Rows))
		for _, r := range g.Rows {
			fmt.Fprintf(w, "  - %s  %s\n", r.Name, r.RowID)
		}
	}
}
