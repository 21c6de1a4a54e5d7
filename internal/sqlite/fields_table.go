package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

// fieldTable implements types.FieldTable.
type fieldTable struct {
	backend *Backend
}

func (t *fieldTable) Get(id string) (*types.Field, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b := t.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return getField(b.db, id)
}

func getField(q queryer, id string) (*types.Field, error) {
	var f types.Field
	err := q.QueryRow(
		"SELECT field_id, name, value_type, date_granularity FROM fields WHERE field_id = ?", id,
	).Scan(&f.FieldID, &f.Name, &f.ValueType, &f.DateGranularity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning field: %w", err)
	}

	rows, err := q.Query(
		"SELECT option_id, name, ordinal FROM options WHERE field_id = ? ORDER BY ordinal, name", id)
	if err != nil {
		return nil, fmt.Errorf("loading options: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var o types.Option
		if err := rows.Scan(&o.OptionID, &o.Name, &o.Ordinal); err != nil {
			return nil, fmt.Errorf("scanning option: %w", err)
		}
		f.Options = append(f.Options, o)
	}
	return &f, rows.Err()
}

// Set validates and stores field. Missing field and option IDs are
// generated and written back into field.
func (t *fieldTable) Set(field *types.Field) (string, error) {
	if field == nil {
		return "", types.ErrInvalidData
	}
	if err := field.Validate(); err != nil {
		return "", err
	}
	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrStoreDetached
	}

	if field.FieldID == "" {
		field.FieldID = newUUID()
	}
	for i := range field.Options {
		if field.Options[i].OptionID == "" {
			field.Options[i].OptionID = newUUID()
		}
	}

	err := b.withTx(func(tx *sql.Tx) error {
		var other string
		err := tx.QueryRow("SELECT field_id FROM fields WHERE name = ? AND field_id <> ?",
			field.Name, field.FieldID).Scan(&other)
		if err == nil {
			return fmt.Errorf("field %q: %w", field.Name, types.ErrDuplicateName)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking field name: %w", err)
		}

		_, err = tx.Exec(`INSERT INTO fields (field_id, name, value_type, date_granularity, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(field_id) DO UPDATE SET
    name = excluded.name,
    value_type = excluded.value_type,
    date_granularity = excluded.date_granularity`,
			field.FieldID, field.Name, field.ValueType, field.DateGranularity, formatTime(time.Now()))
		if err != nil {
			return fmt.Errorf("writing field: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM options WHERE field_id = ?", field.FieldID); err != nil {
			return fmt.Errorf("clearing options: %w", err)
		}
		for _, o := range field.Options {
			if _, err := tx.Exec("INSERT INTO options (option_id, field_id, name, ordinal) VALUES (?, ?, ?, ?)",
				o.OptionID, field.FieldID, o.Name, o.Ordinal); err != nil {
				return fmt.Errorf("writing option %q: %w", o.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return field.FieldID, nil
}

// Delete removes the field. Options, cells and views bound to it go with it.
func (t *fieldTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	res, err := b.db.Exec("DELETE FROM fields WHERE field_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting field: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (t *fieldTable) List() ([]*types.Field, error) {
	b := t.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	ids, err := queryIDs(b.db, "SELECT field_id FROM fields ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing fields: %w", err)
	}
	fields := make([]*types.Field, 0, len(ids))
	for _, id := range ids {
		f, err := getField(b.db, id)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func queryIDs(q queryer, query string, args ...any) ([]string, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
