package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func TestParseCell(t *testing.T) {
	status := &types.Field{
		FieldID:   "status",
		Name:      "Status",
		ValueType: types.ValueTypeCategorical,
		Options:   []types.Option{{OptionID: "o1", Name: "Todo"}, {OptionID: "o2", Name: "Done", Ordinal: 1}},
	}
	field := func(vt string) *types.Field { return &types.Field{FieldID: "f", Name: "F", ValueType: vt} }

	tests := []struct {
		name    string
		field   *types.Field
		raw     string
		want    any
		wantErr error
	}{
		{"empty clears", status, "  ", nil, nil},
		{"option by name", status, "Done", "o2", nil},
		{"option by id", status, "o1", "o1", nil},
		{"unknown option", status, "Later", nil, types.ErrInvalidOption},
		{"boolean yes", field(types.ValueTypeBoolean), "Yes", true, nil},
		{"boolean zero", field(types.ValueTypeBoolean), "0", false, nil},
		{"boolean garbage", field(types.ValueTypeBoolean), "maybe", nil, types.ErrInvalidData},
		{"integer", field(types.ValueTypeInteger), "42", int64(42), nil},
		{"integer garbage", field(types.ValueTypeInteger), "4.2", nil, types.ErrInvalidData},
		{"date only", field(types.ValueTypeTimestamp), "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), nil},
		{"rfc3339", field(types.ValueTypeTimestamp), "2024-03-15T12:00:00+02:00", time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), nil},
		{"date garbage", field(types.ValueTypeTimestamp), "soon", nil, types.ErrInvalidData},
		{"list", field(types.ValueTypeList), "a, b,,c", []string{"a", "b", "c"}, nil},
		{"text", field(types.ValueTypeText), " hello ", "hello", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCell(tt.field, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
