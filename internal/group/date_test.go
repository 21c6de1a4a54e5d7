package group

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func dueField(granularity string) *types.Field {
	return &types.Field{FieldID: "due", Name: "Due", ValueType: types.ValueTypeTimestamp, DateGranularity: granularity}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		in     any
		wantOK bool
	}{
		{"time", want, true},
		{"pointer", &want, true},
		{"rfc3339", "2024-03-15T00:00:00Z", true},
		{"date only", "2024-03-15", true},
		{"unix int64", want.Unix(), true},
		{"unix int", int(want.Unix()), true},
		{"unix float", float64(want.Unix()), true},
		{"zero time", time.Time{}, false},
		{"nil pointer", (*time.Time)(nil), false},
		{"garbage", "soon", false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDate(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestDateFillGroups(t *testing.T) {
	field := dueField("")
	s := mustStrategy(t, field,
		newRow("r1", map[string]any{"due": "2024-03-15"}),
		newRow("r2", map[string]any{"due": time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)}),
		newRow("r3", map[string]any{"due": time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Unix()}),
		newRow("r4", nil),
		newRow("r5", map[string]any{"due": "garbage"}),
	)

	groups := s.Groups()
	assert.Equal(t, []string{"due", "2024-01", "2024-03"}, groupIDs(groups))
	assert.Equal(t, map[string][]string{
		"due":     {"r4", "r5"},
		"2024-01": {"r2"},
		"2024-03": {"r1", "r3"},
	}, membership(groups))
	assert.Equal(t, "Jan 2024", groups[1].Name)
	assert.Equal(t, "Mar 2024", groups[2].Name)
}

func TestDateGranularity(t *testing.T) {
	tests := []struct {
		granularity string
		wantID      string
		wantName    string
	}{
		{types.GranularityDay, "2024-03-15", "Mar 15, 2024"},
		{types.GranularityMonth, "2024-03", "Mar 2024"},
		{types.GranularityYear, "2024", "2024"},
	}
	for _, tt := range tests {
		t.Run(tt.granularity, func(t *testing.T) {
			s := mustStrategy(t, dueField(tt.granularity), newRow("r1", map[string]any{"due": "2024-03-15T10:30:00Z"}))
			groups := s.Groups()
			require.Len(t, groups, 2)
			assert.Equal(t, tt.wantID, groups[1].GroupID)
			assert.Equal(t, tt.wantName, groups[1].Name)
		})
	}
}

func TestDateWillCreateRow(t *testing.T) {
	field := dueField(types.GranularityMonth)
	s := mustStrategy(t, field, newRow("r1", map[string]any{"due": "2024-03-15"}))

	row := newRow("r2", nil)
	s.WillCreateRow(row, field, "2024-03")
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), row.Cell("due"))

	// The stamped value classifies into the target group.
	res, err := s.DidUpdateGroupRow(nil, row, field)
	require.NoError(t, err)
	assert.Equal(t, []RowChangeset{inserted("2024-03", Summarize(row), 1)}, res.RowChangesets)
}

func TestDateGranularityChangeRequiresRebuild(t *testing.T) {
	field := dueField(types.GranularityMonth)
	s := mustStrategy(t, field, newRow("r1", map[string]any{"due": "2024-03-15"}))

	cs, err := s.DidUpdateGroupField(field)
	require.NoError(t, err)
	assert.Nil(t, cs)

	yearly := dueField(types.GranularityYear)
	_, err = s.DidUpdateGroupField(yearly)
	assert.ErrorIs(t, err, ErrRebuildRequired)
	assert.ErrorIs(t, s.FillGroups(nil, yearly), ErrRebuildRequired)
}

func TestNewDateStrategyRejectsUnknownGranularity(t *testing.T) {
	_, err := NewDateStrategy(dueField("fortnight"))
	assert.ErrorIs(t, err, types.ErrInvalidGranularity)
}
