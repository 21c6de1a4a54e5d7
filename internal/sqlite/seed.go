package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Names of the fields and view created on first attach.
const (
	FieldStatus = "Status"
	FieldDone   = "Done"
	FieldDue    = "Due"
	FieldNotes  = "Notes"
	DefaultView = "Board"
)

// builtInFields defines the fields seeded into an empty store.
var builtInFields = []types.Field{
	{
		Name:      FieldStatus,
		ValueType: types.ValueTypeCategorical,
		Options: []types.Option{
			{Name: "Todo", Ordinal: 0},
			{Name: "Doing", Ordinal: 1},
			{Name: "Done", Ordinal: 2},
		},
	},
	{Name: FieldDone, ValueType: types.ValueTypeBoolean},
	{Name: FieldDue, ValueType: types.ValueTypeTimestamp, DateGranularity: types.GranularityMonth},
	{Name: FieldNotes, ValueType: types.ValueTypeText},
}

// Seed creates the built-in fields and a view grouped by Status when the
// store has no fields yet. It reports whether anything was created.
func (b *Backend) Seed() (bool, error) {
	existing, err := b.Fields().List()
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	var statusID string
	for _, f := range builtInFields {
		f := f
		f.Options = append([]types.Option(nil), f.Options...)
		id, err := b.Fields().Set(&f)
		if err != nil {
			return false, fmt.Errorf("seeding field %q: %w", f.Name, err)
		}
		if f.Name == FieldStatus {
			statusID = id
		}
	}
	if _, err := b.Views().Set(&types.View{Name: DefaultView, FieldID: statusID}); err != nil {
		return false, fmt.Errorf("seeding view: %w", err)
	}
	return true, nil
}
