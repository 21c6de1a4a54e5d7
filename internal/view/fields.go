package view

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/boards/internal/group"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// CreateField stores a new field and returns it with generated IDs.
func (s *Service) CreateField(field *types.Field) (*types.Field, error) {
	if field.FieldID != "" {
		return nil, fmt.Errorf("create field: %w", types.ErrInvalidID)
	}
	id, err := s.store.Fields().Set(field)
	if err != nil {
		return nil, fmt.Errorf("create field %q: %w", field.Name, err)
	}
	return s.store.Fields().Get(id)
}

// UpdateField replaces a field definition and reconciles every open view
// grouped by it.
func (s *Service) UpdateField(ctx context.Context, field *types.Field) (*types.Field, error) {
	if field.FieldID == "" {
		return nil, fmt.Errorf("update field: %w", types.ErrInvalidID)
	}
	if _, err := s.store.Fields().Get(field.FieldID); err != nil {
		return nil, fmt.Errorf("update field %s: %w", field.FieldID, err)
	}
	if _, err := s.store.Fields().Set(field); err != nil {
		return nil, fmt.Errorf("update field %s: %w", field.FieldID, err)
	}
	stored, err := s.store.Fields().Get(field.FieldID)
	if err != nil {
		return nil, err
	}

	err = s.notify("update field", func(c *group.Controller, _ *types.Field) error {
		if c.FieldID() != stored.FieldID {
			return nil
		}
		_, err := c.DidUpdateField(ctx, stored)
		return err
	})
	return stored, err
}

// modifyField loads a field, applies fn and stores the result.
func (s *Service) modifyField(ctx context.Context, fieldID string, fn func(f *types.Field) error) (*types.Field, error) {
	f, err := s.store.Fields().Get(fieldID)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fieldID, err)
	}
	if err := fn(f); err != nil {
		return nil, err
	}
	return s.UpdateField(ctx, f)
}

// findOption resolves an option by ID, then by name.
func findOption(f *types.Field, ref string) (int, bool) {
	for i, o := range f.Options {
		if o.OptionID == ref {
			return i, true
		}
	}
	for i, o := range f.Options {
		if o.Name == ref {
			return i, true
		}
	}
	return -1, false
}

// AddOption appends an option to a categorical field.
func (s *Service) AddOption(ctx context.Context, fieldID, name string) (*types.Field, error) {
	return s.modifyField(ctx, fieldID, func(f *types.Field) error {
		if f.ValueType != types.ValueTypeCategorical {
			return fmt.Errorf("add option to %s field: %w", f.ValueType, types.ErrInvalidValueType)
		}
		next := 0
		for _, o := range f.Options {
			next = max(next, o.Ordinal+1)
		}
		f.Options = append(f.Options, types.Option{Name: name, Ordinal: next})
		return nil
	})
}

// RenameOption renames the option identified by ID or name.
func (s *Service) RenameOption(ctx context.Context, fieldID, option, name string) (*types.Field, error) {
	return s.modifyField(ctx, fieldID, func(f *types.Field) error {
		i, ok := findOption(f, option)
		if !ok {
			return fmt.Errorf("option %q: %w", option, types.ErrNotFound)
		}
		f.Options[i].Name = name
		return nil
	})
}

// DeleteOption removes the option identified by ID or name. Rows holding it
// fall back to the field's default group.
func (s *Service) DeleteOption(ctx context.Context, fieldID, option string) (*types.Field, error) {
	return s.modifyField(ctx, fieldID, func(f *types.Field) error {
		i, ok := findOption(f, option)
		if !ok {
			return fmt.Errorf("option %q: %w", option, types.ErrNotFound)
		}
		f.Options = append(f.Options[:i], f.Options[i+1:]...)
		return nil
	})
}

// MoveOption changes the position of an option among the field's options.
func (s *Service) MoveOption(ctx context.Context, fieldID, option string, index int) (*types.Field, error) {
	return s.modifyField(ctx, fieldID, func(f *types.Field) error {
		i, ok := findOption(f, option)
		if !ok {
			return fmt.Errorf("option %q: %w", option, types.ErrNotFound)
		}
		opts := f.SortedOptions()
		for j, o := range opts {
			if o.OptionID == f.Options[i].OptionID {
				i = j
				break
			}
		}
		moved := opts[i]
		opts = append(opts[:i], opts[i+1:]...)
		index = min(max(index, 0), len(opts))
		opts = append(opts[:index], append([]types.Option{moved}, opts[index:]...)...)
		for j := range opts {
			opts[j].Ordinal = j
		}
		f.Options = opts
		return nil
	})
}

// SetFieldType changes a field's value type. Options are dropped unless the
// new type is categorical. Views grouped by the field are rebuilt.
func (s *Service) SetFieldType(ctx context.Context, fieldID, valueType, granularity string) (*types.Field, error) {
	return s.modifyField(ctx, fieldID, func(f *types.Field) error {
		if !types.IsValidValueType(valueType) {
			return fmt.Errorf("value type %q: %w", valueType, types.ErrInvalidValueType)
		}
		f.ValueType = valueType
		if valueType != types.ValueTypeCategorical {
			f.Options = nil
		}
		if valueType == types.ValueTypeTimestamp {
			f.DateGranularity = granularity
		} else {
			f.DateGranularity = ""
		}
		return nil
	})
}
