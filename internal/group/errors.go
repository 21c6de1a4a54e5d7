package group

import "errors"

// Grouping errors. Mutating operations that fail with one of these leave the
// groups untouched.
var (
	// ErrUnknownGroup is returned when an operation names a group that does
	// not exist.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrFieldMismatch is returned when a controller receives a field other
	// than the one it is bound to.
	ErrFieldMismatch = errors.New("field does not match the grouping field")

	// ErrInvalidFieldType is returned when a strategy is asked to interpret a
	// field whose value type it does not support.
	ErrInvalidFieldType = errors.New("field type not supported by grouping strategy")

	// ErrRebuildRequired tells the controller to discard the strategy and
	// build a new one from scratch. It never leaves the Controller.
	ErrRebuildRequired = errors.New("grouping must be rebuilt")

	// ErrRowNotInGroup is returned when a manual move names a row that is not
	// in the source group.
	ErrRowNotInGroup = errors.New("row is not in the source group")
)
