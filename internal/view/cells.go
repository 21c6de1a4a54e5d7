package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// ParseCell converts text entered for a field into the value stored in a
// row's cell. Empty input clears the cell and yields nil. Categorical fields
// accept an option ID or name and store the option ID.
func ParseCell(field *types.Field, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch field.ValueType {
	case types.ValueTypeCategorical:
		if o, ok := field.Option(raw); ok {
			return o.OptionID, nil
		}
		if o, ok := field.OptionByName(raw); ok {
			return o.OptionID, nil
		}
		return nil, fmt.Errorf("%s: no option %q: %w", field.Name, raw, types.ErrInvalidOption)
	case types.ValueTypeBoolean:
		switch strings.ToLower(raw) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%s: %q is not a boolean: %w", field.Name, raw, types.ErrInvalidData)
	case types.ValueTypeInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer: %w", field.Name, raw, types.ErrInvalidData)
		}
		return n, nil
	case types.ValueTypeTimestamp:
		for _, layout := range []string{time.RFC3339, time.DateOnly} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC(), nil
			}
		}
		return nil, fmt.Errorf("%s: %q is not a date: %w", field.Name, raw, types.ErrInvalidData)
	case types.ValueTypeList:
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return raw, nil
	}
}
