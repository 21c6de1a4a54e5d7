package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func TestFieldSetAndGet(t *testing.T) {
	b := attachTemp(t)

	field := &types.Field{
		Name:      "Status",
		ValueType: types.ValueTypeCategorical,
		Options: []types.Option{
			{Name: "Done", Ordinal: 2},
			{Name: "Todo", Ordinal: 0},
		},
	}
	id, err := b.Fields().Set(field)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, field.FieldID)
	for _, o := range field.Options {
		assert.NotEmpty(t, o.OptionID)
	}

	got, err := b.Fields().Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Status", got.Name)
	assert.Equal(t, types.ValueTypeCategorical, got.ValueType)
	require.Len(t, got.Options, 2)
	assert.Equal(t, "Todo", got.Options[0].Name)
	assert.Equal(t, "Done", got.Options[1].Name)
}

func TestFieldUpdateReplacesOptions(t *testing.T) {
	b := attachTemp(t)

	field := &types.Field{Name: "Status", ValueType: types.ValueTypeCategorical, Options: []types.Option{{Name: "A"}, {Name: "B", Ordinal: 1}}}
	id, err := b.Fields().Set(field)
	require.NoError(t, err)
	keep := field.Options[0].OptionID

	field.Options = []types.Option{{OptionID: keep, Name: "Renamed"}}
	_, err = b.Fields().Set(field)
	require.NoError(t, err)

	got, err := b.Fields().Get(id)
	require.NoError(t, err)
	assert.Equal(t, []types.Option{{OptionID: keep, Name: "Renamed"}}, got.Options)
}

func TestFieldSetErrors(t *testing.T) {
	b := attachTemp(t)

	_, err := b.Fields().Set(&types.Field{Name: "Status", ValueType: types.ValueTypeText})
	require.NoError(t, err)

	tests := []struct {
		name    string
		field   *types.Field
		wantErr error
	}{
		{"nil", nil, types.ErrInvalidData},
		{"no name", &types.Field{ValueType: types.ValueTypeText}, types.ErrInvalidName},
		{"bad type", &types.Field{Name: "x", ValueType: "money"}, types.ErrInvalidValueType},
		{"duplicate", &types.Field{Name: "Status", ValueType: types.ValueTypeText}, types.ErrDuplicateName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Fields().Set(tt.field)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFieldDeleteCascades(t *testing.T) {
	b := attachTemp(t)

	fid, err := b.Fields().Set(&types.Field{Name: "Done", ValueType: types.ValueTypeBoolean})
	require.NoError(t, err)
	rid, err := b.Rows().Set(&types.Row{Name: "task", Cells: map[string]any{fid: true}})
	require.NoError(t, err)
	vid, err := b.Views().Set(&types.View{Name: "Board", FieldID: fid})
	require.NoError(t, err)

	require.NoError(t, b.Fields().Delete(fid))

	_, err = b.Fields().Get(fid)
	assert.ErrorIs(t, err, types.ErrNotFound)
	row, err := b.Rows().Get(rid)
	require.NoError(t, err)
	assert.Nil(t, row.Cell(fid))
	_, err = b.Views().Get(vid)
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, b.Fields().Delete(fid), types.ErrNotFound)
	assert.ErrorIs(t, b.Fields().Delete(""), types.ErrInvalidID)
}

func TestFieldList(t *testing.T) {
	b := attachTemp(t)

	for _, name := range []string{"b", "c", "a"} {
		_, err := b.Fields().Set(&types.Field{Name: name, ValueType: types.ValueTypeText})
		require.NoError(t, err)
	}
	fields, err := b.Fields().List()
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Name)
	assert.Equal(t, "c", fields[2].Name)
}
