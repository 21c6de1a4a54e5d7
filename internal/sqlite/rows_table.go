package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// rowTable implements types.RowTable. Cell values are stored as JSON, so a
// time.Time comes back as its RFC 3339 string and numbers as float64.
type rowTable struct {
	backend *Backend
}

func (t *rowTable) Get(id string) (*types.Row, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b := t.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	var r types.Row
	var createdAt, updatedAt string
	err := b.db.QueryRow("SELECT row_id, name, created_at, updated_at FROM rows WHERE row_id = ?", id).
		Scan(&r.RowID, &r.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}
	if err := setTimes(&r, createdAt, updatedAt); err != nil {
		return nil, err
	}

	cells, err := loadCells(b.db, "SELECT row_id, field_id, value FROM cells WHERE row_id = ?", id)
	if err != nil {
		return nil, err
	}
	r.Cells = cells[id]
	return &r, nil
}

func setTimes(r *types.Row, createdAt, updatedAt string) error {
	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return fmt.Errorf("parsing row created_at: %w", err)
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return fmt.Errorf("parsing row updated_at: %w", err)
	}
	return nil
}

// loadCells returns cell values keyed by row ID, then field ID.
func loadCells(q queryer, query string, args ...any) (map[string]map[string]any, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading cells: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[string]any)
	for rows.Next() {
		var rowID, fieldID, raw string
		if err := rows.Scan(&rowID, &fieldID, &raw); err != nil {
			return nil, fmt.Errorf("scanning cell: %w", err)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("parsing cell %s/%s: %w", rowID, fieldID, err)
		}
		if out[rowID] == nil {
			out[rowID] = make(map[string]any)
		}
		out[rowID][fieldID] = v
	}
	return out, rows.Err()
}

// Set stores row and replaces all of its cells. A missing RowID is
// generated; CreatedAt is set on first write and UpdatedAt on every write.
// Every cell must name an existing field.
func (t *rowTable) Set(row *types.Row) (string, error) {
	if row == nil {
		return "", types.ErrInvalidData
	}
	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrStoreDetached
	}

	now := time.Now()
	if row.RowID == "" {
		row.RowID = newUUID()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	err := b.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO rows (row_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(row_id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
			row.RowID, row.Name, formatTime(row.CreatedAt), formatTime(row.UpdatedAt))
		if err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM cells WHERE row_id = ?", row.RowID); err != nil {
			return fmt.Errorf("clearing cells: %w", err)
		}
		for fieldID, v := range row.Cells {
			if v == nil {
				continue
			}
			var exists int
			err := tx.QueryRow("SELECT COUNT(*) FROM fields WHERE field_id = ?", fieldID).Scan(&exists)
			if err != nil {
				return fmt.Errorf("checking field: %w", err)
			}
			if exists == 0 {
				return fmt.Errorf("cell for unknown field %q: %w", fieldID, types.ErrInvalidData)
			}
			raw, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encoding cell %q: %w", fieldID, err)
			}
			if _, err := tx.Exec("INSERT INTO cells (row_id, field_id, value) VALUES (?, ?, ?)",
				row.RowID, fieldID, string(raw)); err != nil {
				return fmt.Errorf("writing cell %q: %w", fieldID, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return row.RowID, nil
}

func (t *rowTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	res, err := b.db.Exec("DELETE FROM rows WHERE row_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting row: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// List returns every row in creation order.
func (t *rowTable) List() ([]*types.Row, error) {
	b := t.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return listRows(b.db)
}

func listRows(q queryer) ([]*types.Row, error) {
	cells, err := loadCells(q, "SELECT row_id, field_id, value FROM cells")
	if err != nil {
		return nil, err
	}

	rows, err := q.Query("SELECT row_id, name, created_at, updated_at FROM rows ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("listing rows: %w", err)
	}
	defer rows.Close()

	var out []*types.Row
	for rows.Next() {
		var r types.Row
		var createdAt, updatedAt string
		if err := rows.Scan(&r.RowID, &r.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := setTimes(&r, createdAt, updatedAt); err != nil {
			return nil, err
		}
		r.Cells = cells[r.RowID]
		out = append(out, &r)
	}
	return out, rows.Err()
}
