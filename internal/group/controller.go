package group

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/mesh-intelligence/boards/internal/event"
	"github.com/mesh-intelligence/boards/internal/logging"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// RowLoader returns the current rows of the table. The Controller calls it
// when it builds or rebuilds its groups and never keeps the result.
type RowLoader func(ctx context.Context) ([]*types.Row, error)

// Publisher receives the Controller's outward events.
type Publisher interface {
	Publish(e event.Event)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *logging.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPublisher publishes every non-empty change to p.
func WithPublisher(p Publisher) ControllerOption {
	return func(c *Controller) { c.publisher = p }
}

// StrategyFactory creates the strategy for a field.
type StrategyFactory func(field *types.Field) (Strategy, error)

// WithStrategyFactory replaces NewStrategy for the initial build and every
// rebuild.
func WithStrategyFactory(f StrategyFactory) ControllerOption {
	return func(c *Controller) {
		if f != nil {
			c.newStrategy = f
		}
	}
}

// WithGroupOrder restores a persisted group order.
func WithGroupOrder(order []string) ControllerOption {
	return func(c *Controller) { c.order = append([]string(nil), order...) }
}

// Controller owns the groups of one view for one field. All mutations are
// serialized; each one works on a clone of the strategy and swaps it in only
// when the operation succeeds, so a failed call leaves the groups unchanged.
type Controller struct {
	mu          sync.RWMutex
	viewID      string
	fieldID     string
	strategy    Strategy
	newStrategy StrategyFactory
	shape       string
	loader      RowLoader
	logger      *logging.Logger
	publisher   Publisher
	order       []string
}

// NewController builds the groups of viewID for field from the rows
// returned by loader.
func NewController(ctx context.Context, viewID string, field *types.Field, loader RowLoader, opts ...ControllerOption) (*Controller, error) {
	if field == nil || field.FieldID == "" {
		return nil, fmt.Errorf("new controller: %w", types.ErrInvalidID)
	}
	if loader == nil {
		return nil, errors.New("new controller: nil row loader")
	}
	c := &Controller{
		viewID:      viewID,
		fieldID:     field.FieldID,
		newStrategy: NewStrategy,
		loader:      loader,
		logger:      logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithView(viewID).WithField(field.FieldID)

	s, err := c.build(ctx, field)
	if err != nil {
		return nil, err
	}
	if c.order != nil {
		s.SetGroupOrder(c.order)
	}
	c.strategy = s
	c.shape = shapeOf(field)
	c.logger.Debug("groups built", "groups", len(s.Groups()))
	return c, nil
}

// build creates a fresh strategy for field and fills it with loaded rows.
func (c *Controller) build(ctx context.Context, field *types.Field) (Strategy, error) {
	s, err := c.newStrategy(field)
	if err != nil {
		return nil, err
	}
	rows, err := c.loader(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	if err := s.FillGroups(rows, field); err != nil {
		return nil, fmt.Errorf("fill groups: %w", err)
	}
	return s, nil
}

// ViewID returns the view the controller serves.
func (c *Controller) ViewID() string { return c.viewID }

// FieldID returns the grouping field ID.
func (c *Controller) FieldID() string { return c.fieldID }

// Groups returns a snapshot of the groups in display order.
func (c *Controller) Groups() []Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.strategy.Groups()
}

// GetGroup returns the position and a snapshot of a group.
func (c *Controller) GetGroup(groupID string) (int, Group, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.strategy.GetGroup(groupID)
}

// GroupOrder returns the user-defined group order for persistence.
func (c *Controller) GroupOrder() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.strategy.GroupOrder()
}

func (c *Controller) checkField(field *types.Field) error {
	if field == nil || field.FieldID != c.fieldID {
		got := "<nil>"
		if field != nil {
			got = field.FieldID
		}
		return fmt.Errorf("%w: got %q, bound to %q", ErrFieldMismatch, got, c.fieldID)
	}
	return nil
}

// Reload regroups every row from scratch. Manual placements whose rows are
// unchanged survive.
func (c *Controller) Reload(ctx context.Context, field *types.Field) error {
	if err := c.checkField(field); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if shapeOf(field) != c.shape {
		_, err := c.rebuild(ctx, field)
		return err
	}
	rows, err := c.loader(ctx)
	if err != nil {
		return fmt.Errorf("reload: load rows: %w", err)
	}
	prev := c.strategy.Groups()
	next := c.strategy.Clone()
	err = next.FillGroups(rows, field)
	if errors.Is(err, ErrRebuildRequired) || errors.Is(err, ErrInvalidFieldType) {
		_, err = c.rebuild(ctx, field)
		return err
	}
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	c.strategy = next
	cs := diffGroups(c.fieldID, prev, next.Groups())
	c.logger.Debug("groups reloaded", "rows", len(rows))
	c.publish(&GroupsChangedEvent{ViewID: c.viewID, FieldID: c.fieldID, Changeset: cs})
	return nil
}

// MoveGroup moves fromGroupID to the position of toGroupID.
func (c *Controller) MoveGroup(fromGroupID, toGroupID string) (*GroupsChangedEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.strategy.GroupOrder()
	next := c.strategy.Clone()
	if err := next.MoveGroup(fromGroupID, toGroupID); err != nil {
		return nil, err
	}
	c.strategy = next

	ev := &GroupsChangedEvent{ViewID: c.viewID, FieldID: c.fieldID, Changeset: GroupChangeset{FieldID: c.fieldID}}
	if after := next.GroupOrder(); !slices.Equal(before, after) {
		ev.Changeset.GroupOrder = after
		c.logger.Debug("group moved", "from", fromGroupID, "to", toGroupID)
	}
	c.publish(ev)
	return ev, nil
}

// DidUpdateRow regroups a row after one of its cells changed. oldRow is the
// row before the edit and may be nil.
func (c *Controller) DidUpdateRow(oldRow, row *types.Row, field *types.Field) (*RowsChangedEvent, error) {
	if err := c.checkField(field); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.strategy.Clone()
	res, err := next.DidUpdateGroupRow(oldRow, row, field)
	if err != nil {
		return nil, fmt.Errorf("update row %s: %w", row.RowID, err)
	}
	c.strategy = next
	return c.rowsChanged(res.InsertedGroup, res.DeletedGroup, res.RowChangesets), nil
}

// DidDeleteRow removes a deleted row from its group.
func (c *Controller) DidDeleteRow(row *types.Row, field *types.Field) (*RowsChangedEvent, error) {
	if err := c.checkField(field); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.strategy.Clone()
	res, err := next.DidDeleteRow(row, field)
	if err != nil {
		return nil, fmt.Errorf("delete row %s: %w", row.RowID, err)
	}
	c.strategy = next
	return c.rowsChanged(nil, res.DeletedGroup, res.RowChangesets), nil
}

// MoveGroupRow applies a manual row move.
func (c *Controller) MoveGroupRow(ctx MoveGroupRowContext) (*RowsChangedEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.strategy.Clone()
	res, err := next.MoveGroupRow(ctx)
	if err != nil {
		return nil, err
	}
	c.strategy = next
	return c.rowsChanged(nil, res.DeletedGroup, res.RowChangesets), nil
}

// CreateRow prepares a row about to be created in groupID. It returns a
// copy of row whose grouping cell places it in that group; the caller
// persists the copy and then calls DidCreateRow.
func (c *Controller) CreateRow(row *types.Row, field *types.Field, groupID string) (*types.Row, error) {
	if err := c.checkField(field); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, _, ok := c.strategy.GetGroup(groupID); !ok {
		return nil, fmt.Errorf("create row in %q: %w", groupID, ErrUnknownGroup)
	}
	cp := row.Clone()
	c.strategy.WillCreateRow(cp, field, groupID)
	return cp, nil
}

// DidCreateRow adds a newly persisted row. When groupID names a shown group
// the row is appended to it; otherwise the row is placed by its cell value.
func (c *Controller) DidCreateRow(row *types.Row, field *types.Field, groupID string) (*RowsChangedEvent, error) {
	if err := c.checkField(field); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.strategy.Clone()
	if _, ok := next.(*DefaultStrategy); ok && groupID == "" {
		groupID = DefaultGroupID
	}
	if _, g, ok := next.GetGroup(groupID); ok && groupID != "" {
		if g.Contains(row.RowID) {
			return c.rowsChanged(nil, "", nil), nil
		}
		next.DidCreateRow(Summarize(row), groupID)
		c.strategy = next
		_, g, _ = next.GetGroup(groupID)
		idx := g.RowIndex(row.RowID)
		if idx < 0 {
			return c.rowsChanged(nil, "", nil), nil
		}
		return c.rowsChanged(nil, "", []RowChangeset{inserted(g.GroupID, g.Rows[idx], idx)}), nil
	}

	res, err := next.DidUpdateGroupRow(nil, row, field)
	if err != nil {
		return nil, fmt.Errorf("create row %s: %w", row.RowID, err)
	}
	c.strategy = next
	return c.rowsChanged(res.InsertedGroup, res.DeletedGroup, res.RowChangesets), nil
}

// DidUpdateField reconciles the groups with a changed field definition.
// Changes the strategy cannot absorb, such as a new value type, rebuild the
// groups from freshly loaded rows.
func (c *Controller) DidUpdateField(ctx context.Context, field *types.Field) (*GroupsChangedEvent, error) {
	if err := c.checkField(field); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if shapeOf(field) != c.shape {
		return c.rebuild(ctx, field)
	}
	next := c.strategy.Clone()
	cs, err := next.DidUpdateGroupField(field)
	if errors.Is(err, ErrRebuildRequired) {
		return c.rebuild(ctx, field)
	}
	if err != nil {
		return nil, fmt.Errorf("update field: %w", err)
	}
	c.strategy = next

	ev := &GroupsChangedEvent{ViewID: c.viewID, FieldID: c.fieldID, Changeset: GroupChangeset{FieldID: c.fieldID}}
	if cs != nil {
		ev.Changeset = *cs
		c.logger.Debug("field reconciled",
			"deleted", len(cs.DeletedGroupIDs),
			"updated", len(cs.UpdatedGroups))
	}
	c.publish(ev)
	return ev, nil
}

// rebuild replaces the strategy. Callers hold the write lock.
func (c *Controller) rebuild(ctx context.Context, field *types.Field) (*GroupsChangedEvent, error) {
	s, err := c.build(ctx, field)
	if err != nil {
		return nil, fmt.Errorf("rebuild groups: %w", err)
	}
	prev := c.strategy.Groups()
	c.strategy = s
	c.shape = shapeOf(field)

	cs := GroupChangeset{FieldID: c.fieldID, InsertedGroups: s.Groups(), GroupOrder: s.GroupOrder()}
	for _, g := range prev {
		cs.DeletedGroupIDs = append(cs.DeletedGroupIDs, g.GroupID)
	}
	c.logger.Info("groups rebuilt", "value_type", field.ValueType, "groups", len(cs.InsertedGroups))
	ev := &GroupsChangedEvent{ViewID: c.viewID, FieldID: c.fieldID, Changeset: cs}
	c.publish(ev)
	return ev, nil
}

// shapeOf identifies the field properties a strategy is built for. A field
// whose shape changes always gets a new strategy.
func shapeOf(field *types.Field) string {
	if field.ValueType == types.ValueTypeTimestamp {
		return field.ValueType + "/" + field.Granularity()
	}
	return field.ValueType
}

func (c *Controller) rowsChanged(insertedGroup *Group, deletedGroup string, changes []RowChangeset) *RowsChangedEvent {
	if changes == nil {
		changes = []RowChangeset{}
	}
	ev := &RowsChangedEvent{
		ViewID:        c.viewID,
		FieldID:       c.fieldID,
		InsertedGroup: insertedGroup,
		DeletedGroup:  deletedGroup,
		RowChangesets: changes,
	}
	c.publish(ev)
	return ev
}

func (c *Controller) publish(ev event.Event) {
	if c.publisher == nil {
		return
	}
	switch e := ev.(type) {
	case *RowsChangedEvent:
		if e.IsEmpty() {
			return
		}
	case *GroupsChangedEvent:
		if e.Changeset.IsEmpty() {
			return
		}
	}
	c.publisher.Publish(ev)
}

// diffGroups describes the change from prev to next as group insertions,
// deletions and updates.
func diffGroups(fieldID string, prev, next []Group) GroupChangeset {
	cs := GroupChangeset{FieldID: fieldID}
	old := make(map[string]Group, len(prev))
	for _, g := range prev {
		old[g.GroupID] = g
	}
	seen := make(map[string]bool, len(next))
	for _, g := range next {
		seen[g.GroupID] = true
		p, ok := old[g.GroupID]
		switch {
		case !ok:
			cs.InsertedGroups = append(cs.InsertedGroups, g)
		case !equalGroups(p, g):
			cs.UpdatedGroups = append(cs.UpdatedGroups, g)
		}
	}
	for _, g := range prev {
		if !seen[g.GroupID] {
			cs.DeletedGroupIDs = append(cs.DeletedGroupIDs, g.GroupID)
		}
	}
	return cs
}

func equalGroups(a, b Group) bool {
	return a.Name == b.Name && slices.Equal(a.Rows, b.Rows)
}
