package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Table operation errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrInvalidID   = errors.New("invalid entity ID")
	ErrInvalidData = errors.New("invalid entity data")
)

// Entity validation errors.
var (
	ErrInvalidName        = errors.New("invalid name")
	ErrDuplicateName      = errors.New("duplicate name")
	ErrInvalidValueType   = errors.New("invalid value type")
	ErrInvalidGranularity = errors.New("invalid date granularity")
	ErrInvalidOption      = errors.New("invalid option")
)
