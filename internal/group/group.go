package group

import "github.com/mesh-intelligence/boards/pkg/types"

// RowSummary is the minimal projection of a row kept inside a group.
type RowSummary struct {
	RowID string `json:"row_id"`
	Name  string `json:"name"`
}

// Summarize projects a row snapshot into a RowSummary.
func Summarize(row *types.Row) RowSummary {
	return RowSummary{RowID: row.RowID, Name: row.Name}
}

// Group is an ordered bucket of rows sharing one classification of the
// grouping field. The default group holds rows that match no explicit
// category and has an empty name.
type Group struct {
	GroupID   string       `json:"group_id"`
	FieldID   string       `json:"field_id"`
	Name      string       `json:"name"`
	IsDefault bool         `json:"is_default"`
	Rows      []RowSummary `json:"rows"`
}

func newGroup(groupID, fieldID, name string, isDefault bool) *Group {
	return &Group{
		GroupID:   groupID,
		FieldID:   fieldID,
		Name:      name,
		IsDefault: isDefault,
		Rows:      []RowSummary{},
	}
}

// Clone returns a deep copy of the group.
func (g *Group) Clone() Group {
	cp := *g
	cp.Rows = make([]RowSummary, len(g.Rows))
	copy(cp.Rows, g.Rows)
	return cp
}

// RowIndex returns the position of rowID inside the group, or -1.
func (g *Group) RowIndex(rowID string) int {
	for i, r := range g.Rows {
		if r.RowID == rowID {
			return i
		}
	}
	return -1
}

// Contains reports whether the group holds rowID.
func (g *Group) Contains(rowID string) bool {
	return g.RowIndex(rowID) >= 0
}

func (g *Group) addRow(row RowSummary) int {
	g.Rows = append(g.Rows, row)
	return len(g.Rows) - 1
}

// insertRow places row at index, clamped to the valid range. A negative
// index appends. Returns the final position.
func (g *Group) insertRow(row RowSummary, index int) int {
	if index < 0 || index >= len(g.Rows) {
		return g.addRow(row)
	}
	g.Rows = append(g.Rows, RowSummary{})
	copy(g.Rows[index+1:], g.Rows[index:])
	g.Rows[index] = row
	return index
}

func (g *Group) removeRowAt(index int) RowSummary {
	row := g.Rows[index]
	g.Rows = append(g.Rows[:index], g.Rows[index+1:]...)
	return row
}

func cloneGroups(groups []*Group) []*Group {
	out := make([]*Group, len(groups))
	for i, g := range groups {
		cp := g.Clone()
		out[i] = &cp
	}
	return out
}
