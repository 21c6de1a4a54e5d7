package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRowCells(t *testing.T) {
	r := &Row{RowID: "r1", UpdatedAt: time.Now().Add(-time.Hour)}
	before := r.UpdatedAt

	assert.Nil(t, r.Cell("f1"), "missing cell reads as nil")

	r.SetCell("f1", "o1")
	assert.Equal(t, "o1", r.Cell("f1"))
	assert.True(t, r.UpdatedAt.After(before), "UpdatedAt should advance")

	r.ClearCell("f1")
	assert.Nil(t, r.Cell("f1"))
	r.ClearCell("f1")
}

func TestRowCloneOwnsCells(t *testing.T) {
	r := &Row{RowID: "r1", Cells: map[string]any{"f1": true}}
	cp := r.Clone()
	cp.SetCell("f1", false)

	assert.Equal(t, true, r.Cell("f1"))
	assert.Equal(t, false, cp.Cell("f1"))
}
