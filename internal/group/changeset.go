package group

// Row changeset kinds.
const (
	RowInserted = "inserted"
	RowDeleted  = "deleted"
	RowUpdated  = "updated"
	RowMoved    = "moved"
)

// RowChangeset describes what happened to one row inside one group. Index is
// the row's position in the group after the change for inserted, updated and
// moved entries, and its former position for deleted entries. Row is set
// for inserted and updated entries.
type RowChangeset struct {
	GroupID string      `json:"group_id"`
	RowID   string      `json:"row_id"`
	Kind    string      `json:"kind"`
	Index   int         `json:"index"`
	Row     *RowSummary `json:"row,omitempty"`
}

func inserted(groupID string, row RowSummary, index int) RowChangeset {
	return RowChangeset{GroupID: groupID, RowID: row.RowID, Kind: RowInserted, Index: index, Row: &row}
}

func deleted(groupID, rowID string, index int) RowChangeset {
	return RowChangeset{GroupID: groupID, RowID: rowID, Kind: RowDeleted, Index: index}
}

func updated(groupID string, row RowSummary, index int) RowChangeset {
	return RowChangeset{GroupID: groupID, RowID: row.RowID, Kind: RowUpdated, Index: index, Row: &row}
}

func moved(groupID, rowID string, index int) RowChangeset {
	return RowChangeset{GroupID: groupID, RowID: rowID, Kind: RowMoved, Index: index}
}

// DidUpdateGroupRowResult is returned after a row edit. InsertedGroup is set
// when the row's new value materialized a group; DeletedGroup names a
// non-default group the row's departure left empty.
type DidUpdateGroupRowResult struct {
	InsertedGroup *Group         `json:"inserted_group,omitempty"`
	DeletedGroup  string         `json:"deleted_group,omitempty"`
	RowChangesets []RowChangeset `json:"row_changesets"`
}

// DidMoveGroupRowResult is returned after a row deletion or a manual move.
type DidMoveGroupRowResult struct {
	DeletedGroup  string         `json:"deleted_group,omitempty"`
	RowChangesets []RowChangeset `json:"row_changesets"`
}

// GroupChangeset describes group-level changes caused by a change of the
// grouping field itself, a rebuild, or a group reorder. GroupOrder is set
// only when the order of groups changed.
type GroupChangeset struct {
	FieldID         string   `json:"field_id"`
	InsertedGroups  []Group  `json:"inserted_groups,omitempty"`
	DeletedGroupIDs []string `json:"deleted_group_ids,omitempty"`
	UpdatedGroups   []Group  `json:"updated_groups,omitempty"`
	GroupOrder      []string `json:"group_order,omitempty"`
}

// IsEmpty reports whether the changeset carries no change.
func (c *GroupChangeset) IsEmpty() bool {
	return len(c.InsertedGroups) == 0 &&
		len(c.DeletedGroupIDs) == 0 &&
		len(c.UpdatedGroups) == 0 &&
		len(c.GroupOrder) == 0
}

// MoveGroupRowContext describes a manual row move. A negative ToIndex, or
// one past the end of the destination, appends.
type MoveGroupRowContext struct {
	RowID       string `json:"row_id"`
	FromGroupID string `json:"from_group_id"`
	ToGroupID   string `json:"to_group_id"`
	ToIndex     int    `json:"to_index"`
}

// Event types published by the Controller.
const (
	EventRowsChanged   = "group.rows_changed"
	EventGroupsChanged = "group.groups_changed"
)

// RowsChangedEvent is the outward form of a row-level result, stamped with
// the identity of the view and field it belongs to.
type RowsChangedEvent struct {
	ViewID        string         `json:"view_id"`
	FieldID       string         `json:"field_id"`
	InsertedGroup *Group         `json:"inserted_group,omitempty"`
	DeletedGroup  string         `json:"deleted_group,omitempty"`
	RowChangesets []RowChangeset `json:"row_changesets"`
}

// EventType implements event.Event.
func (e *RowsChangedEvent) EventType() string { return EventRowsChanged }

// IsEmpty reports whether the event carries no change.
func (e *RowsChangedEvent) IsEmpty() bool {
	return e.InsertedGroup == nil && e.DeletedGroup == "" && len(e.RowChangesets) == 0
}

// GroupsChangedEvent is the outward form of a GroupChangeset.
type GroupsChangedEvent struct {
	ViewID    string         `json:"view_id"`
	FieldID   string         `json:"field_id"`
	Changeset GroupChangeset `json:"changeset"`
}

// EventType implements event.Event.
func (e *GroupsChangedEvent) EventType() string { return EventGroupsChanged }
