package group

import "github.com/mesh-intelligence/boards/pkg/types"

// optionClassifier groups categorical fields by the option ID held in the
// cell.
type optionClassifier struct{}

// NewOptionStrategy creates the strategy for categorical fields. Each option
// that holds rows gets a group named after it; unknown or empty values go to
// the default group.
func NewOptionStrategy(field *types.Field) (Strategy, error) {
	e, err := newEngine(field, optionClassifier{})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (optionClassifier) valueType() string { return types.ValueTypeCategorical }

func (optionClassifier) classify(field *types.Field, row *types.Row) (string, bool) {
	id, ok := row.Cell(field.FieldID).(string)
	if !ok || id == "" {
		return "", false
	}
	if _, ok := field.Option(id); !ok {
		return "", false
	}
	return id, true
}

func (optionClassifier) describe(field *types.Field, groupID string) (string, bool) {
	o, ok := field.Option(groupID)
	return o.Name, ok
}

func (optionClassifier) less(field *types.Field, a, b string) bool {
	oa, okA := field.Option(a)
	ob, okB := field.Option(b)
	switch {
	case !okA || !okB:
		return okA && !okB
	case oa.Ordinal != ob.Ordinal:
		return oa.Ordinal < ob.Ordinal
	default:
		return oa.Name < ob.Name
	}
}

func (optionClassifier) stamp(field *types.Field, row *types.Row, groupID string) {
	row.SetCell(field.FieldID, groupID)
}

func (optionClassifier) candidates(field *types.Field) []string {
	opts := field.SortedOptions()
	ids := make([]string, len(opts))
	for i, o := range opts {
		ids[i] = o.OptionID
	}
	return ids
}

func (optionClassifier) compatible(*types.Field) bool { return true }
