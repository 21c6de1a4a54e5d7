package group

import (
	"strings"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Checkbox group IDs.
const (
	CheckboxChecked   = "Yes"
	CheckboxUnchecked = "No"
)

// checkboxClassifier groups boolean fields into checked and unchecked rows.
// An unset cell, or one that cannot be read as a boolean, belongs to the
// default group.
type checkboxClassifier struct{}

// NewCheckboxStrategy creates the strategy for boolean fields.
func NewCheckboxStrategy(field *types.Field) (Strategy, error) {
	e, err := newEngine(field, checkboxClassifier{})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (checkboxClassifier) valueType() string { return types.ValueTypeBoolean }

func (checkboxClassifier) classify(field *types.Field, row *types.Row) (string, bool) {
	checked, ok := parseCheckbox(row.Cell(field.FieldID))
	if !ok {
		return "", false
	}
	if checked {
		return CheckboxChecked, true
	}
	return CheckboxUnchecked, true
}

// parseCheckbox reads bools and their common string spellings.
func parseCheckbox(v any) (checked, ok bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
	}
	return false, false
}

func (checkboxClassifier) describe(_ *types.Field, groupID string) (string, bool) {
	switch groupID {
	case CheckboxChecked, CheckboxUnchecked:
		return groupID, true
	}
	return "", false
}

func (checkboxClassifier) less(_ *types.Field, a, b string) bool {
	return a == CheckboxChecked && b != CheckboxChecked
}

func (checkboxClassifier) stamp(field *types.Field, row *types.Row, groupID string) {
	row.SetCell(field.FieldID, groupID == CheckboxChecked)
}

func (checkboxClassifier) candidates(*types.Field) []string {
	return []string{CheckboxChecked, CheckboxUnchecked}
}

func (checkboxClassifier) compatible(*types.Field) bool { return true }
