package view

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/boards/internal/group"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// AddRow stores a new row and adds it to every open view. When viewID is
// set the row's grouping cell is stamped so the row lands in groupID of that
// view.
func (s *Service) AddRow(ctx context.Context, viewID, groupID, name string, cells map[string]any) (*types.Row, error) {
	row := &types.Row{Name: name, Cells: cells}
	if viewID != "" {
		c, err := s.Open(ctx, viewID)
		if err != nil {
			return nil, err
		}
		field, err := s.store.Fields().Get(c.FieldID())
		if err != nil {
			return nil, fmt.Errorf("add row: %w", err)
		}
		if row, err = c.CreateRow(row, field, groupID); err != nil {
			return nil, fmt.Errorf("add row: %w", err)
		}
	}
	if _, err := s.store.Rows().Set(row); err != nil {
		return nil, fmt.Errorf("add row: %w", err)
	}

	err := s.notify("add row", func(c *group.Controller, field *types.Field) error {
		target := ""
		if c.ViewID() == viewID {
			target = groupID
		}
		_, err := c.DidCreateRow(row, field, target)
		return err
	})
	return row, err
}

// UpdateRow sets the given cells of a row; a nil value clears the cell.
// Every open view regroups the row.
func (s *Service) UpdateRow(rowID string, cells map[string]any) (*types.Row, error) {
	old, err := s.store.Rows().Get(rowID)
	if err != nil {
		return nil, fmt.Errorf("update row %s: %w", rowID, err)
	}
	row := old.Clone()
	for fieldID, v := range cells {
		if v == nil {
			row.ClearCell(fieldID)
			continue
		}
		row.SetCell(fieldID, v)
	}
	if _, err := s.store.Rows().Set(row); err != nil {
		return nil, fmt.Errorf("update row %s: %w", rowID, err)
	}

	err = s.notify("update row", func(c *group.Controller, field *types.Field) error {
		_, err := c.DidUpdateRow(old, row, field)
		return err
	})
	return row, err
}

// RenameRow changes a row's display name. Group membership is unaffected
// but every view containing the row reports it as updated.
func (s *Service) RenameRow(rowID, name string) (*types.Row, error) {
	old, err := s.store.Rows().Get(rowID)
	if err != nil {
		return nil, fmt.Errorf("rename row %s: %w", rowID, err)
	}
	row := old.Clone()
	row.Name = name
	if _, err := s.store.Rows().Set(row); err != nil {
		return nil, fmt.Errorf("rename row %s: %w", rowID, err)
	}
	err = s.notify("rename row", func(c *group.Controller, field *types.Field) error {
		_, err := c.DidUpdateRow(old, row, field)
		return err
	})
	return row, err
}

// DeleteRow removes a row from the store and from every open view.
func (s *Service) DeleteRow(rowID string) error {
	row, err := s.store.Rows().Get(rowID)
	if err != nil {
		return fmt.Errorf("delete row %s: %w", rowID, err)
	}
	if err := s.store.Rows().Delete(rowID); err != nil {
		return fmt.Errorf("delete row %s: %w", rowID, err)
	}
	return s.notify("delete row", func(c *group.Controller, field *types.Field) error {
		_, err := c.DidDeleteRow(row, field)
		return err
	})
}
