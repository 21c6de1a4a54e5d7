package group

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Group ID and display layouts per granularity.
var dateLayouts = map[string]struct{ id, name string }{
	types.GranularityDay:   {id: "2006-01-02", name: "Jan 2, 2006"},
	types.GranularityMonth: {id: "2006-01", name: "Jan 2006"},
	types.GranularityYear:  {id: "2006", name: "2006"},
}

// dateClassifier buckets timestamp fields into calendar periods. The
// granularity is fixed for the strategy's lifetime; a field whose
// granularity changes requires a rebuild.
type dateClassifier struct {
	granularity string
}

// NewDateStrategy creates the strategy for timestamp fields, bucketing rows
// by the field's granularity (month unless configured otherwise).
func NewDateStrategy(field *types.Field) (Strategy, error) {
	g := field.Granularity()
	if !types.IsValidGranularity(g) {
		return nil, fmt.Errorf("date field %q: %w: %s", field.FieldID, types.ErrInvalidGranularity, g)
	}
	e, err := newEngine(field, dateClassifier{granularity: g})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (dateClassifier) valueType() string { return types.ValueTypeTimestamp }

func (c dateClassifier) classify(field *types.Field, row *types.Row) (string, bool) {
	t, ok := parseDate(row.Cell(field.FieldID))
	if !ok {
		return "", false
	}
	return t.UTC().Format(dateLayouts[c.granularity].id), true
}

// parseDate reads times, RFC 3339 or date-only strings, and unix seconds.
func parseDate(v any) (time.Time, bool) {
	switch v := v.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		s := strings.TrimSpace(v)
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, true
		}
	case int:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	case float64:
		return time.Unix(int64(v), 0), true
	}
	return time.Time{}, false
}

func (c dateClassifier) start(groupID string) (time.Time, bool) {
	t, err := time.Parse(dateLayouts[c.granularity].id, groupID)
	return t, err == nil
}

func (c dateClassifier) describe(_ *types.Field, groupID string) (string, bool) {
	t, ok := c.start(groupID)
	if !ok {
		return "", false
	}
	return t.Format(dateLayouts[c.granularity].name), true
}

// less relies on the ID layouts sorting lexically in chronological order.
func (dateClassifier) less(_ *types.Field, a, b string) bool { return a < b }

func (c dateClassifier) stamp(field *types.Field, row *types.Row, groupID string) {
	if t, ok := c.start(groupID); ok {
		row.SetCell(field.FieldID, t.UTC())
	}
}

func (dateClassifier) candidates(*types.Field) []string { return nil }

func (c dateClassifier) compatible(field *types.Field) bool {
	return field.Granularity() == c.granularity
}
