package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func textField() *types.Field {
	return &types.Field{FieldID: "f1", Name: "Notes", ValueType: types.ValueTypeText}
}

func TestDefaultStrategyFillGroups(t *testing.T) {
	field := textField()
	s := NewDefaultStrategy(field)

	rows := []*types.Row{newRow("r1", nil), newRow("r2", nil), newRow("r3", nil)}
	require.NoError(t, s.FillGroups(rows, field))

	groups := s.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, DefaultGroupID, groups[0].GroupID)
	assert.Equal(t, "f1", groups[0].FieldID)
	assert.Empty(t, groups[0].Name)
	assert.True(t, groups[0].IsDefault)
	assert.Equal(t, []string{"r1", "r2", "r3"}, rowIDs(groups[0]))

	// Filling again does not duplicate rows.
	require.NoError(t, s.FillGroups(rows, field))
	assert.Equal(t, groups, s.Groups())
}

func TestDefaultStrategyMutationsAreNoops(t *testing.T) {
	field := textField()
	s := NewDefaultStrategy(field)
	require.NoError(t, s.FillGroups([]*types.Row{newRow("r1", nil), newRow("r2", nil)}, field))
	before := s.Groups()

	require.NoError(t, s.MoveGroup("x", "y"))

	upd, err := s.DidUpdateGroupRow(nil, newRow("r1", map[string]any{"f1": "hello"}), field)
	require.NoError(t, err)
	assert.Nil(t, upd.InsertedGroup)
	assert.Empty(t, upd.DeletedGroup)
	assert.NotNil(t, upd.RowChangesets)
	assert.Empty(t, upd.RowChangesets)

	del, err := s.DidDeleteRow(newRow("r1", nil), field)
	require.NoError(t, err)
	assert.Empty(t, del.DeletedGroup)
	assert.Empty(t, del.RowChangesets)

	mv, err := s.MoveGroupRow(MoveGroupRowContext{RowID: "r1", FromGroupID: DefaultGroupID, ToGroupID: "other", ToIndex: 0})
	require.NoError(t, err)
	assert.Empty(t, mv.RowChangesets)

	cs, err := s.DidUpdateGroupField(&types.Field{FieldID: "f1", Name: "Renamed", ValueType: types.ValueTypeInteger})
	require.NoError(t, err)
	assert.Nil(t, cs)

	assert.Equal(t, before, s.Groups())
}

func TestDefaultStrategyKeepsDeletedRowUntilRefill(t *testing.T) {
	field := textField()
	s := NewDefaultStrategy(field)
	r1, r2 := newRow("r1", nil), newRow("r2", nil)
	require.NoError(t, s.FillGroups([]*types.Row{r1, r2}, field))

	_, err := s.DidDeleteRow(r1, field)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, rowIDs(s.Groups()[0]))

	require.NoError(t, s.FillGroups([]*types.Row{r2}, field))
	assert.Equal(t, []string{"r2"}, rowIDs(s.Groups()[0]))
}

func TestDefaultStrategyGetGroup(t *testing.T) {
	s := NewDefaultStrategy(textField())

	for _, id := range []string{DefaultGroupID, "anything", ""} {
		i, g, ok := s.GetGroup(id)
		assert.True(t, ok, id)
		assert.Equal(t, 0, i)
		assert.Equal(t, DefaultGroupID, g.GroupID)
	}
}

func TestDefaultStrategyCreateRow(t *testing.T) {
	field := textField()
	s := NewDefaultStrategy(field)

	row := newRow("r1", map[string]any{"f1": "keep"})
	s.WillCreateRow(row, field, DefaultGroupID)
	assert.Equal(t, "keep", row.Cell("f1"))

	s.DidCreateRow(Summarize(row), DefaultGroupID)
	s.DidCreateRow(Summarize(row), DefaultGroupID)
	_, g, _ := s.GetGroup(DefaultGroupID)
	assert.Equal(t, []string{"r1"}, rowIDs(g))
}

func TestDefaultStrategyCloneIsIndependent(t *testing.T) {
	field := textField()
	s := NewDefaultStrategy(field)
	require.NoError(t, s.FillGroups([]*types.Row{newRow("r1", nil)}, field))

	cp := s.Clone()
	cp.DidCreateRow(RowSummary{RowID: "r2"}, DefaultGroupID)

	assert.Len(t, s.Groups()[0].Rows, 1)
	assert.Len(t, cp.Groups()[0].Rows, 2)
}

func TestNewStrategy(t *testing.T) {
	tests := []struct {
		valueType string
		isDefault bool
	}{
		{types.ValueTypeCategorical, false},
		{types.ValueTypeBoolean, false},
		{types.ValueTypeTimestamp, false},
		{types.ValueTypeText, true},
		{types.ValueTypeInteger, true},
		{types.ValueTypeList, true},
	}
	for _, tt := range tests {
		t.Run(tt.valueType, func(t *testing.T) {
			s, err := NewStrategy(&types.Field{FieldID: "f", Name: "F", ValueType: tt.valueType})
			require.NoError(t, err)
			_, isDefault := s.(*DefaultStrategy)
			assert.Equal(t, tt.isDefault, isDefault)
			assert.Equal(t, "f", s.FieldID())
		})
	}

	_, err := NewStrategy(&types.Field{Name: "no id"})
	assert.ErrorIs(t, err, types.ErrInvalidID)
	_, err = NewStrategy(nil)
	assert.ErrorIs(t, err, types.ErrInvalidID)
}
