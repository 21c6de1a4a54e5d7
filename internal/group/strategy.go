package group

import (
	"fmt"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Strategy decides group membership for one field type and reacts to row,
// field and ordering changes. Implementations are not safe for concurrent
// use; Controller serializes access.
type Strategy interface {
	// FieldID returns the ID of the grouping field. It never changes.
	FieldID() string

	// Groups returns copies of the groups in display order.
	Groups() []Group

	// GetGroup returns the position and a copy of the group with the given
	// ID. A miss is reported through ok, never as an error.
	GetGroup(groupID string) (index int, group Group, ok bool)

	// FillGroups discards the current membership and classifies rows from
	// scratch, preserving input order inside each group. Calling it twice
	// with the same input yields the same groups.
	FillGroups(rows []*types.Row, field *types.Field) error

	// MoveGroup moves fromGroupID to the position of toGroupID.
	MoveGroup(fromGroupID, toGroupID string) error

	// DidUpdateGroupRow re-evaluates one row after an edit. oldRow may be nil.
	DidUpdateGroupRow(oldRow, row *types.Row, field *types.Field) (*DidUpdateGroupRowResult, error)

	// DidDeleteRow removes the row from its group.
	DidDeleteRow(row *types.Row, field *types.Field) (*DidMoveGroupRowResult, error)

	// MoveGroupRow applies a manual move that overrides the row's field
	// value until the value is edited.
	MoveGroupRow(ctx MoveGroupRowContext) (*DidMoveGroupRowResult, error)

	// DidUpdateGroupField reconciles groups with a changed field definition.
	// It returns nil when nothing changed and ErrRebuildRequired when the
	// change cannot be applied incrementally.
	DidUpdateGroupField(field *types.Field) (*GroupChangeset, error)

	// WillCreateRow stamps the grouping cell of a row about to be created so
	// that it classifies into groupID.
	WillCreateRow(row *types.Row, field *types.Field, groupID string)

	// DidCreateRow appends a newly created row to groupID.
	DidCreateRow(row RowSummary, groupID string)

	// GroupOrder returns the user-defined group order, which may name groups
	// that are not currently shown.
	GroupOrder() []string

	// SetGroupOrder restores a persisted group order.
	SetGroupOrder(order []string)

	// Clone returns an independent deep copy.
	Clone() Strategy
}

// NewStrategy returns the strategy for the field's value type: categorical
// fields group by option, boolean fields by checkbox state, timestamp fields
// by date period. Every other type gets the DefaultStrategy.
func NewStrategy(field *types.Field) (Strategy, error) {
	if field == nil || field.FieldID == "" {
		return nil, fmt.Errorf("new strategy: %w", types.ErrInvalidID)
	}
	switch field.ValueType {
	case types.ValueTypeCategorical:
		return NewOptionStrategy(field)
	case types.ValueTypeBoolean:
		return NewCheckboxStrategy(field)
	case types.ValueTypeTimestamp:
		return NewDateStrategy(field)
	default:
		return NewDefaultStrategy(field), nil
	}
}
