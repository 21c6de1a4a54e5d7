package types

import "time"

// Row is a record of a table. Cell values are keyed by field ID and hold
// whatever the field's value type accepts: an option ID for categorical
// fields, a bool for boolean fields, a time for timestamp fields.
type Row struct {
	RowID     string         `json:"row_id"`
	Name      string         `json:"name"`
	Cells     map[string]any `json:"cells,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Cell returns the value stored for fieldID, or nil if the row has none.
func (r *Row) Cell(fieldID string) any {
	if r.Cells == nil {
		return nil
	}
	return r.Cells[fieldID]
}

// SetCell stores value for fieldID and refreshes UpdatedAt.
func (r *Row) SetCell(fieldID string, value any) {
	if r.Cells == nil {
		r.Cells = make(map[string]any)
	}
	r.Cells[fieldID] = value
	r.UpdatedAt = time.Now()
}

// ClearCell removes the value stored for fieldID. Idempotent.
func (r *Row) ClearCell(fieldID string) {
	if r.Cells == nil {
		return
	}
	delete(r.Cells, fieldID)
	r.UpdatedAt = time.Now()
}

// Clone returns a copy of the row with its own cell map. Cell values are
// copied shallowly.
func (r *Row) Clone() *Row {
	cp := *r
	if r.Cells != nil {
		cp.Cells = make(map[string]any, len(r.Cells))
		for k, v := range r.Cells {
			cp.Cells[k] = v
		}
	}
	return &cp
}
