package group

import "github.com/mesh-intelligence/boards/pkg/types"

// DefaultGroupID is the ID of the single group kept by DefaultStrategy.
const DefaultGroupID = "DefaultGroupController"

// DefaultStrategy groups every row into one permanent group. It serves
// field types that have no grouping semantics of their own, so the rest of
// the system never special-cases "ungrouped".
type DefaultStrategy struct {
	fieldID string
	group   *Group
}

var _ Strategy = (*DefaultStrategy)(nil)

// NewDefaultStrategy creates a DefaultStrategy bound to field.
func NewDefaultStrategy(field *types.Field) *DefaultStrategy {
	return &DefaultStrategy{
		fieldID: field.FieldID,
		group:   newGroup(DefaultGroupID, field.FieldID, "", true),
	}
}

func (s *DefaultStrategy) FieldID() string { return s.fieldID }

func (s *DefaultStrategy) Groups() []Group { return []Group{s.group.Clone()} }

// GetGroup returns the single group for any ID.
func (s *DefaultStrategy) GetGroup(string) (int, Group, bool) {
	return 0, s.group.Clone(), true
}

// FillGroups puts every row into the single group, in input order.
func (s *DefaultStrategy) FillGroups(rows []*types.Row, _ *types.Field) error {
	s.group.Rows = make([]RowSummary, 0, len(rows))
	for _, row := range rows {
		if s.group.Contains(row.RowID) {
			continue
		}
		s.group.addRow(Summarize(row))
	}
	return nil
}

func (s *DefaultStrategy) MoveGroup(string, string) error { return nil }

func (s *DefaultStrategy) DidUpdateGroupRow(_, _ *types.Row, _ *types.Field) (*DidUpdateGroupRowResult, error) {
	return &DidUpdateGroupRowResult{RowChangesets: []RowChangeset{}}, nil
}

// DidDeleteRow leaves the group as it is. A deleted row stays listed until
// the next FillGroups, which the controller runs on Reload.
func (s *DefaultStrategy) DidDeleteRow(*types.Row, *types.Field) (*DidMoveGroupRowResult, error) {
	return &DidMoveGroupRowResult{RowChangesets: []RowChangeset{}}, nil
}

func (s *DefaultStrategy) MoveGroupRow(MoveGroupRowContext) (*DidMoveGroupRowResult, error) {
	return &DidMoveGroupRowResult{RowChangesets: []RowChangeset{}}, nil
}

func (s *DefaultStrategy) DidUpdateGroupField(*types.Field) (*GroupChangeset, error) {
	return nil, nil
}

// WillCreateRow has nothing to stamp: there is only one destination.
func (s *DefaultStrategy) WillCreateRow(*types.Row, *types.Field, string) {}

// DidCreateRow appends the row to the single group. Row insertion is the one
// membership change this strategy performs.
func (s *DefaultStrategy) DidCreateRow(row RowSummary, _ string) {
	if s.group.Contains(row.RowID) {
		return
	}
	s.group.addRow(row)
}

func (s *DefaultStrategy) GroupOrder() []string { return []string{DefaultGroupID} }

func (s *DefaultStrategy) SetGroupOrder([]string) {}

func (s *DefaultStrategy) Clone() Strategy {
	g := s.group.Clone()
	return &DefaultStrategy{fieldID: s.fieldID, group: &g}
}
