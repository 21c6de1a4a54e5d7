package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// viewTable implements types.ViewTable. Group orders live in
// group_settings keyed by view and field, so switching a view back to a
// field it grouped by before restores that field's order.
type viewTable struct {
	backend *Backend
}

const selectView = `SELECT v.view_id, v.name, v.field_id, v.created_at, gs.group_order
FROM views v
LEFT JOIN group_settings gs ON gs.view_id = v.view_id AND gs.field_id = v.field_id`

func (t *viewTable) Get(id string) (*types.View, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b := t.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return getView(b.db, id)
}

func getView(q queryer, id string) (*types.View, error) {
	v, err := scanView(q.QueryRow(selectView+" WHERE v.view_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	return v, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanView(s scanner) (*types.View, error) {
	var v types.View
	var createdAt string
	var order sql.NullString
	if err := s.Scan(&v.ViewID, &v.Name, &v.FieldID, &createdAt, &order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning view: %w", err)
	}
	var err error
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing view created_at: %w", err)
	}
	if order.Valid {
		if err := json.Unmarshal([]byte(order.String), &v.GroupOrder); err != nil {
			return nil, fmt.Errorf("parsing group order: %w", err)
		}
	}
	return &v, nil
}

// Set stores view. The grouping field must exist. A non-nil GroupOrder is
// stored for the view's current field.
func (t *viewTable) Set(view *types.View) (string, error) {
	if view == nil {
		return "", types.ErrInvalidData
	}
	if view.Name == "" {
		return "", types.ErrInvalidName
	}
	if view.FieldID == "" {
		return "", types.ErrInvalidID
	}
	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrStoreDetached
	}

	if view.ViewID == "" {
		view.ViewID = newUUID()
	}
	if view.CreatedAt.IsZero() {
		view.CreatedAt = time.Now()
	}

	err := b.withTx(func(tx *sql.Tx) error {
		if _, err := getField(tx, view.FieldID); err != nil {
			return fmt.Errorf("view field %q: %w", view.FieldID, err)
		}
		var other string
		err := tx.QueryRow("SELECT view_id FROM views WHERE name = ? AND view_id <> ?",
			view.Name, view.ViewID).Scan(&other)
		if err == nil {
			return fmt.Errorf("view %q: %w", view.Name, types.ErrDuplicateName)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking view name: %w", err)
		}

		_, err = tx.Exec(`INSERT INTO views (view_id, name, field_id, created_at) VALUES (?, ?, ?, ?)
ON CONFLICT(view_id) DO UPDATE SET name = excluded.name, field_id = excluded.field_id`,
			view.ViewID, view.Name, view.FieldID, formatTime(view.CreatedAt))
		if err != nil {
			return fmt.Errorf("writing view: %w", err)
		}
		if view.GroupOrder != nil {
			return writeGroupOrder(tx, view.ViewID, view.FieldID, view.GroupOrder)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return view.ViewID, nil
}

func writeGroupOrder(tx *sql.Tx, viewID, fieldID string, order []string) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encoding group order: %w", err)
	}
	_, err = tx.Exec(`INSERT INTO group_settings (view_id, field_id, group_order) VALUES (?, ?, ?)
ON CONFLICT(view_id, field_id) DO UPDATE SET group_order = excluded.group_order`,
		viewID, fieldID, string(raw))
	if err != nil {
		return fmt.Errorf("writing group order: %w", err)
	}
	return nil
}

// SetGroupOrder replaces the group order persisted for the view's current
// field.
func (t *viewTable) SetGroupOrder(viewID string, order []string) error {
	if viewID == "" {
		return types.ErrInvalidID
	}
	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	return b.withTx(func(tx *sql.Tx) error {
		v, err := getView(tx, viewID)
		if err != nil {
			return err
		}
		if order == nil {
			order = []string{}
		}
		return writeGroupOrder(tx, v.ViewID, v.FieldID, order)
	})
}

func (t *viewTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	res, err := b.db.Exec("DELETE FROM views WHERE view_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting view: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (t *viewTable) List() ([]*types.View, error) {
	b := t.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query(selectView + " ORDER BY v.name")
	if err != nil {
		return nil, fmt.Errorf("listing views: %w", err)
	}
	defer rows.Close()

	var views []*types.View
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
