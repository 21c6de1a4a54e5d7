package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func TestRowSetAndGet(t *testing.T) {
	b := attachTemp(t)

	status, err := b.Fields().Set(&types.Field{Name: "Status", ValueType: types.ValueTypeCategorical, Options: []types.Option{{Name: "Todo"}}})
	require.NoError(t, err)
	done, err := b.Fields().Set(&types.Field{Name: "Done", ValueType: types.ValueTypeBoolean})
	require.NoError(t, err)
	due, err := b.Fields().Set(&types.Field{Name: "Due", ValueType: types.ValueTypeTimestamp})
	require.NoError(t, err)

	when := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	row := &types.Row{Name: "write docs", Cells: map[string]any{
		status: "opt-1",
		done:   true,
		due:    when,
	}}
	id, err := b.Rows().Set(row)
	require.NoError(t, err)
	assert.Equal(t, id, row.RowID)
	assert.False(t, row.CreatedAt.IsZero())

	got, err := b.Rows().Get(id)
	require.NoError(t, err)
	assert.Equal(t, "write docs", got.Name)
	assert.Equal(t, "opt-1", got.Cell(status))
	assert.Equal(t, true, got.Cell(done))
	assert.Equal(t, "2024-03-15T00:00:00Z", got.Cell(due))
	assert.True(t, row.CreatedAt.Equal(got.CreatedAt))
}

func TestRowUpdateReplacesCells(t *testing.T) {
	b := attachTemp(t)

	done, err := b.Fields().Set(&types.Field{Name: "Done", ValueType: types.ValueTypeBoolean})
	require.NoError(t, err)
	notes, err := b.Fields().Set(&types.Field{Name: "Notes", ValueType: types.ValueTypeText})
	require.NoError(t, err)

	row := &types.Row{Name: "task", Cells: map[string]any{done: false, notes: "n"}}
	id, err := b.Rows().Set(row)
	require.NoError(t, err)
	created := row.CreatedAt

	row.Name = "renamed"
	row.Cells = map[string]any{done: true, notes: nil}
	_, err = b.Rows().Set(row)
	require.NoError(t, err)

	got, err := b.Rows().Get(id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, map[string]any{done: true}, got.Cells)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestRowSetUnknownField(t *testing.T) {
	b := attachTemp(t)

	_, err := b.Rows().Set(&types.Row{Name: "task", Cells: map[string]any{"nope": 1}})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	rows, err := b.Rows().List()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRowDeleteAndList(t *testing.T) {
	b := attachTemp(t)

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		id, err := b.Rows().Set(&types.Row{Name: name})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, b.Rows().Delete(ids[1]))
	assert.ErrorIs(t, b.Rows().Delete(ids[1]), types.ErrNotFound)
	_, err := b.Rows().Get(ids[1])
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.Rows().Get("")
	assert.ErrorIs(t, err, types.ErrInvalidID)

	rows, err := b.Rows().List()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].Name)
	assert.Equal(t, "third", rows[1].Name)
}
