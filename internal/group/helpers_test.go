package group

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func statusField() *types.Field {
	return &types.Field{
		FieldID:   "status",
		Name:      "Status",
		ValueType: types.ValueTypeCategorical,
		Options: []types.Option{
			{OptionID: "A", Name: "Todo", Ordinal: 0},
			{OptionID: "B", Name: "Doing", Ordinal: 1},
			{OptionID: "C", Name: "Done", Ordinal: 2},
		},
	}
}

func newRow(id string, cells map[string]any) *types.Row {
	return &types.Row{RowID: id, Name: "row " + id, Cells: cells}
}

func statusRow(id, optionID string) *types.Row {
	if optionID == "" {
		return newRow(id, nil)
	}
	return newRow(id, map[string]any{"status": optionID})
}

func groupIDs(groups []Group) []string {
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.GroupID
	}
	return ids
}

func rowIDs(g Group) []string {
	ids := make([]string, len(g.Rows))
	for i, r := range g.Rows {
		ids[i] = r.RowID
	}
	return ids
}

// membership maps group ID to its row IDs.
func membership(groups []Group) map[string][]string {
	m := make(map[string][]string, len(groups))
	for _, g := range groups {
		m[g.GroupID] = rowIDs(g)
	}
	return m
}

// assertPartition checks that every row appears in exactly one group.
func assertPartition(t *testing.T, groups []Group, rowIDs ...string) {
	t.Helper()
	seen := make(map[string]int)
	for _, g := range groups {
		for _, r := range g.Rows {
			seen[r.RowID]++
		}
	}
	for _, id := range rowIDs {
		assert.Equal(t, 1, seen[id], "row %s", id)
	}
	assert.Len(t, seen, len(rowIDs))
}

func mustStrategy(t *testing.T, field *types.Field, rows ...*types.Row) Strategy {
	t.Helper()
	s, err := NewStrategy(field)
	if err != nil {
		t.Fatalf("new strategy: %v", err)
	}
	if err := s.FillGroups(rows, field); err != nil {
		t.Fatalf("fill groups: %v", err)
	}
	return s
}
