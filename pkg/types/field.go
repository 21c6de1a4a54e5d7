package types

import "sort"

// Field value types determine which values a field's cells accept and which
// grouping strategy applies to the field.
const (
	ValueTypeCategorical = "categorical"
	ValueTypeText        = "text"
	ValueTypeInteger     = "integer"
	ValueTypeBoolean     = "boolean"
	ValueTypeTimestamp   = "timestamp"
	ValueTypeList        = "list"
)

// validValueTypes is the set of recognized field value types.
var validValueTypes = map[string]bool{
	ValueTypeCategorical: true,
	ValueTypeText:        true,
	ValueTypeInteger:     true,
	ValueTypeBoolean:     true,
	ValueTypeTimestamp:   true,
	ValueTypeList:        true,
}

// Date granularities for timestamp fields. The empty string means
// GranularityMonth.
const (
	GranularityDay   = "day"
	GranularityMonth = "month"
	GranularityYear  = "year"
)

var validGranularities = map[string]bool{
	"":               true,
	GranularityDay:   true,
	GranularityMonth: true,
	GranularityYear:  true,
}

// Field is a column definition of a table. Categorical fields enumerate
// their valid choices in Options; timestamp fields carry the granularity
// used to bucket dates.
type Field struct {
	FieldID         string   `json:"field_id"`
	Name            string   `json:"name"`
	ValueType       string   `json:"value_type"`
	Options         []Option `json:"options,omitempty"`
	DateGranularity string   `json:"date_granularity,omitempty"`
}

// Option is a valid choice for a categorical field.
type Option struct {
	OptionID string `json:"option_id"`
	Name     string `json:"name"`
	Ordinal  int    `json:"ordinal"`
}

// DefaultValue returns the type-based default value for a given ValueType.
// Returns nil for categorical and timestamp types, "" for text, 0 for integer,
// false for boolean, and an empty string slice for list.
// Returns nil and ErrInvalidValueType if the type is not recognized.
func DefaultValue(valueType string) (any, error) {
	switch valueType {
	case ValueTypeCategorical:
		return nil, nil
	case ValueTypeText:
		return "", nil
	case ValueTypeInteger:
		return int64(0), nil
	case ValueTypeBoolean:
		return false, nil
	case ValueTypeTimestamp:
		return nil, nil
	case ValueTypeList:
		return []string{}, nil
	default:
		return nil, ErrInvalidValueType
	}
}

// IsValidValueType reports whether the given string is a recognized value type.
func IsValidValueType(vt string) bool {
	return validValueTypes[vt]
}

// IsValidGranularity reports whether g is a recognized date granularity.
func IsValidGranularity(g string) bool {
	return validGranularities[g]
}

// Granularity returns the effective date granularity of the field.
func (f *Field) Granularity() string {
	if f.DateGranularity == "" {
		return GranularityMonth
	}
	return f.DateGranularity
}

// Validate checks the field definition. Options are only allowed on
// categorical fields and their names must be unique and non-empty.
func (f *Field) Validate() error {
	if f.Name == "" {
		return ErrInvalidName
	}
	if !IsValidValueType(f.ValueType) {
		return ErrInvalidValueType
	}
	if !IsValidGranularity(f.DateGranularity) {
		return ErrInvalidGranularity
	}
	if len(f.Options) > 0 && f.ValueType != ValueTypeCategorical {
		return ErrInvalidValueType
	}
	seen := make(map[string]bool, len(f.Options))
	for _, o := range f.Options {
		if o.Name == "" {
			return ErrInvalidName
		}
		if seen[o.Name] {
			return ErrDuplicateName
		}
		seen[o.Name] = true
	}
	return nil
}

// Option returns the option with the given ID.
func (f *Field) Option(optionID string) (Option, bool) {
	for _, o := range f.Options {
		if o.OptionID == optionID {
			return o, true
		}
	}
	return Option{}, false
}

// OptionByName returns the option with the given display name.
func (f *Field) OptionByName(name string) (Option, bool) {
	for _, o := range f.Options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// SortedOptions returns a copy of the options ordered by ordinal ascending,
// then name ascending.
func (f *Field) SortedOptions() []Option {
	opts := make([]Option, len(f.Options))
	copy(opts, f.Options)
	sort.SliceStable(opts, func(i, j int) bool {
		if opts[i].Ordinal != opts[j].Ordinal {
			return opts[i].Ordinal < opts[j].Ordinal
		}
		return opts[i].Name < opts[j].Name
	})
	return opts
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	cp := *f
	if f.Options != nil {
		cp.Options = make([]Option, len(f.Options))
		copy(cp.Options, f.Options)
	}
	return &cp
}
