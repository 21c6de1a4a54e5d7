package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/boards/internal/group"
	"github.com/mesh-intelligence/boards/internal/view"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// field resolves a field by ID, then by name.
func (a *app) field(ref string) (*types.Field, error) {
	f, err := a.store.Fields().Get(ref)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}
	fields, err := a.store.Fields().List()
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if f.Name == ref {
			return f, nil
		}
	}
	return nil, fmt.Errorf("field %q: %w", ref, types.ErrNotFound)
}

// view resolves a view by ID, then by name.
func (a *app) view(ref string) (*types.View, error) {
	v, err := a.store.Views().Get(ref)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}
	views, err := a.store.Views().List()
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		if v.Name == ref {
			return v, nil
		}
	}
	return nil, fmt.Errorf("view %q: %w", ref, types.ErrNotFound)
}

// groupID resolves a group of the view by ID or name. "default" names the
// default group.
func (a *app) groupID(ctx context.Context, viewID, ref string) (string, error) {
	groups, err := a.svc.Groups(ctx, viewID)
	if err != nil {
		return "", err
	}
	for _, g := range groups {
		if g.GroupID == ref {
			return g.GroupID, nil
		}
	}
	for _, g := range groups {
		if (g.IsDefault && strings.EqualFold(ref, "default")) || (!g.IsDefault && g.Name == ref) {
			return g.GroupID, nil
		}
	}
	return "", fmt.Errorf("group %q: %w", ref, group.ErrUnknownGroup)
}

// parseAssignments turns field=value arguments into cell values.
func (a *app) parseAssignments(args []string) (map[string]any, error) {
	cells := make(map[string]any, len(args))
	for _, arg := range args {
		ref, raw, ok := strings.Cut(arg, "=")
		if !ok || ref == "" {
			return nil, fmt.Errorf("%w: expected field=value, got %q", errUsage, arg)
		}
		f, err := a.field(ref)
		if err != nil {
			return nil, err
		}
		v, err := view.ParseCell(f, raw)
		if err != nil {
			return nil, err
		}
		cells[f.FieldID] = v
	}
	return cells, nil
}
