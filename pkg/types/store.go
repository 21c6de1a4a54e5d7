package types

import "time"

// View is a saved grouping of the table by one field. GroupOrder holds the
// user-defined order of group IDs; it may name groups that are currently
// empty and therefore not shown.
type View struct {
	ViewID     string    `json:"view_id"`
	Name       string    `json:"name"`
	FieldID    string    `json:"field_id"`
	GroupOrder []string  `json:"group_order,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is the persistence collaborator of the grouping engine. Callers
// attach to a backend, work through its tables, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	// After Detach, table operations return ErrStoreDetached.
	Detach() error

	Fields() FieldTable
	Rows() RowTable
	Views() ViewTable
}

// FieldTable stores field definitions together with their options.
type FieldTable interface {
	// Get returns the field with the given ID or ErrNotFound.
	Get(id string) (*Field, error)

	// Set creates the field when FieldID is empty (generating the ID and
	// any missing option IDs) and replaces it otherwise. Returns the ID.
	Set(field *Field) (string, error)

	// Delete removes the field, its options and every cell holding a value
	// for it. Returns ErrNotFound if absent.
	Delete(id string) error

	// List returns every field ordered by name.
	List() ([]*Field, error)
}

// RowTable stores rows and their cells.
type RowTable interface {
	Get(id string) (*Row, error)
	Set(row *Row) (string, error)
	Delete(id string) error

	// List returns every row in creation order.
	List() ([]*Row, error)
}

// ViewTable stores views and their persisted group order.
type ViewTable interface {
	Get(id string) (*View, error)
	Set(view *View) (string, error)
	Delete(id string) error
	List() ([]*View, error)

	// SetGroupOrder replaces the persisted group order of a view.
	SetGroupOrder(viewID string, order []string) error
}
