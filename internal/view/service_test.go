package view

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/internal/event"
	"github.com/mesh-intelligence/boards/internal/group"
	"github.com/mesh-intelligence/boards/internal/logging"
	"github.com/mesh-intelligence/boards/internal/sqlite"
	"github.com/mesh-intelligence/boards/pkg/types"
)

type fixture struct {
	store  *sqlite.Backend
	svc    *Service
	status *types.Field
	view   *types.View
	events []event.Event
}

// option returns the ID of the status option with the given name.
func (f *fixture) option(t *testing.T, name string) string {
	t.Helper()
	o, ok := f.status.OptionByName(name)
	require.True(t, ok, name)
	return o.OptionID
}

func (f *fixture) addRow(t *testing.T, name, option string) *types.Row {
	t.Helper()
	row := &types.Row{Name: name}
	if option != "" {
		row.Cells = map[string]any{f.status.FieldID: f.option(t, option)}
	}
	_, err := f.store.Rows().Set(row)
	require.NoError(t, err)
	return row
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := sqlite.NewBackend()
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { _ = store.Detach() })

	f := &fixture{store: store, svc: NewService(store)}
	f.svc.Bus().SubscribeAll(func(e event.Event) { f.events = append(f.events, e) })

	var err error
	f.status, err = f.svc.CreateField(&types.Field{
		Name:      "Status",
		ValueType: types.ValueTypeCategorical,
		Options: []types.Option{
			{Name: "Todo", Ordinal: 0},
			{Name: "Doing", Ordinal: 1},
			{Name: "Done", Ordinal: 2},
		},
	})
	require.NoError(t, err)
	f.view, err = f.svc.CreateView("Board", f.status.FieldID)
	require.NoError(t, err)
	return f
}

func groupIDs(groups []group.Group) []string {
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.GroupID
	}
	return ids
}

func groupNames(groups []group.Group) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}

func rowNames(g group.Group) []string {
	names := make([]string, len(g.Rows))
	for i, r := range g.Rows {
		names[i] = r.Name
	}
	return names
}

// byName maps group name to its row names.
func byName(groups []group.Group) map[string][]string {
	m := make(map[string][]string, len(groups))
	for _, g := range groups {
		m[g.Name] = rowNames(g)
	}
	return m
}

func TestOpenBuildsGroups(t *testing.T) {
	f := newFixture(t)
	f.addRow(t, "write", "Doing")
	f.addRow(t, "plan", "Todo")
	f.addRow(t, "idle", "")
	f.addRow(t, "review", "Doing")

	groups, err := f.svc.Groups(context.Background(), f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Todo", "Doing"}, groupNames(groups))
	assert.Equal(t, f.status.FieldID, groups[0].GroupID)
	assert.Equal(t, map[string][]string{
		"":      {"idle"},
		"Todo":  {"plan"},
		"Doing": {"write", "review"},
	}, byName(groups))
}

func TestOpenReusesController(t *testing.T) {
	f := newFixture(t)
	f.addRow(t, "write", "Doing")

	const n = 20
	got := make([]*group.Controller, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := f.svc.Open(context.Background(), f.view.ViewID)
			assert.NoError(t, err)
			got[i] = c
		}()
	}
	wg.Wait()
	for _, c := range got {
		assert.Same(t, got[0], c)
	}

	f.svc.Close()
	c, err := f.svc.Open(context.Background(), f.view.ViewID)
	require.NoError(t, err)
	assert.NotSame(t, got[0], c)
}

func TestOpenUnknownView(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAddRowIntoGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRow(t, "write", "Doing")
	_, err := f.svc.Open(ctx, f.view.ViewID)
	require.NoError(t, err)

	row, err := f.svc.AddRow(ctx, f.view.ViewID, f.option(t, "Doing"), "test", nil)
	require.NoError(t, err)
	assert.Equal(t, f.option(t, "Doing"), row.Cell(f.status.FieldID))

	stored, err := f.store.Rows().Get(row.RowID)
	require.NoError(t, err)
	assert.Equal(t, f.option(t, "Doing"), stored.Cell(f.status.FieldID))

	groups, err := f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"write", "test"}, byName(groups)["Doing"])

	require.NotEmpty(t, f.events)
	ev, ok := f.events[len(f.events)-1].(*group.RowsChangedEvent)
	require.True(t, ok)
	assert.Equal(t, f.view.ViewID, ev.ViewID)
	require.Len(t, ev.RowChangesets, 1)
	assert.Equal(t, group.RowInserted, ev.RowChangesets[0].Kind)
	assert.Equal(t, 1, ev.RowChangesets[0].Index)
}

func TestAddRowIntoHiddenGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddRow(ctx, f.view.ViewID, f.option(t, "Done"), "late", nil)
	assert.ErrorIs(t, err, group.ErrUnknownGroup)

	rows, err := f.store.Rows().List()
	require.NoError(t, err)
	assert.Empty(t, rows, "nothing is stored when the group is unknown")

	// Rows added without a view are placed by value.
	_, err = f.svc.AddRow(ctx, "", "", "late", map[string]any{f.status.FieldID: f.option(t, "Done")})
	require.NoError(t, err)
	groups, err := f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"late"}, byName(groups)["Done"])
}

func TestUpdateRowRegroups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	row := f.addRow(t, "write", "Doing")
	_, err := f.svc.Open(ctx, f.view.ViewID)
	require.NoError(t, err)

	_, err = f.svc.UpdateRow(row.RowID, map[string]any{f.status.FieldID: f.option(t, "Done")})
	require.NoError(t, err)
	groups, err := f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Done"}, groupNames(groups))

	ev, ok := f.events[len(f.events)-1].(*group.RowsChangedEvent)
	require.True(t, ok)
	require.NotNil(t, ev.InsertedGroup)
	assert.Equal(t, f.option(t, "Done"), ev.InsertedGroup.GroupID)
	assert.Equal(t, f.option(t, "Doing"), ev.DeletedGroup)

	_, err = f.svc.UpdateRow(row.RowID, map[string]any{f.status.FieldID: nil})
	require.NoError(t, err)
	groups, err = f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"": {"write"}}, byName(groups))

	stored, err := f.store.Rows().Get(row.RowID)
	require.NoError(t, err)
	assert.Nil(t, stored.Cell(f.status.FieldID))
}

func TestRenameRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	row := f.addRow(t, "write", "Doing")
	_, err := f.svc.Open(ctx, f.view.ViewID)
	require.NoError(t, err)

	_, err = f.svc.RenameRow(row.RowID, "rewrite")
	require.NoError(t, err)
	groups, err := f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"rewrite"}, byName(groups)["Doing"])
}

func TestDeleteRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	row := f.addRow(t, "write", "Doing")
	_, err := f.svc.Open(ctx, f.view.ViewID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRow(row.RowID))
	groups, err := f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{f.status.FieldID}, groupIDs(groups))

	_, err = f.store.Rows().Get(row.RowID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteRow(row.RowID), types.ErrNotFound)
}

func TestMoveGroupPersistsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRow(t, "plan", "Todo")
	f.addRow(t, "write", "Doing")

	ev, err := f.svc.MoveGroup(ctx, f.view.ViewID, f.option(t, "Doing"), f.option(t, "Todo"))
	require.NoError(t, err)
	assert.NotEmpty(t, ev.Changeset.GroupOrder)

	_, err = f.svc.MoveGroup(ctx, f.view.ViewID, "missing", f.option(t, "Todo"))
	assert.ErrorIs(t, err, group.ErrUnknownGroup)

	// A fresh service restores the order from the store.
	other := NewService(f.store)
	groups, err := other.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Doing", "Todo"}, groupNames(groups))
}

func TestMoveRowHoldsUntilValueChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.addRow(t, "plan", "Todo")
	f.addRow(t, "write", "Doing")

	_, err := f.svc.MoveRow(ctx, f.view.ViewID, group.MoveGroupRowContext{
		RowID:       plan.RowID,
		FromGroupID: f.option(t, "Todo"),
		ToGroupID:   f.option(t, "Doing"),
		ToIndex:     0,
	})
	require.NoError(t, err)
	groups, err := f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"plan", "write"}, byName(groups)["Doing"])

	stored, err := f.store.Rows().Get(plan.RowID)
	require.NoError(t, err)
	assert.Equal(t, f.option(t, "Todo"), stored.Cell(f.status.FieldID), "moving does not edit the cell")

	_, err = f.svc.RenameRow(plan.RowID, "plan v2")
	require.NoError(t, err)
	groups, err = f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"plan v2", "write"}, byName(groups)["Doing"])

	_, err = f.svc.UpdateRow(plan.RowID, map[string]any{f.status.FieldID: f.option(t, "Done")})
	require.NoError(t, err)
	groups, err = f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"plan v2"}, byName(groups)["Done"])
	assert.Equal(t, []string{"write"}, byName(groups)["Doing"])
}

func TestFieldOptionChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRow(t, "plan", "Todo")
	f.addRow(t, "write", "Doing")
	_, err := f.svc.Open(ctx, f.view.ViewID)
	require.NoError(t, err)

	updated, err := f.svc.AddOption(ctx, f.status.FieldID, "Blocked")
	require.NoError(t, err)
	blocked, ok := updated.OptionByName("Blocked")
	require.True(t, ok)
	assert.NotEmpty(t, blocked.OptionID)
	assert.Equal(t, 3, blocked.Ordinal)

	_, err = f.svc.RenameOption(ctx, f.status.FieldID, "Doing", "In progress")
	require.NoError(t, err)
	groups, err := f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Todo", "In progress"}, groupNames(groups))

	_, err = f.svc.MoveOption(ctx, f.status.FieldID, "Todo", 1)
	require.NoError(t, err)
	groups, err = f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "In progress", "Todo"}, groupNames(groups))

	_, err = f.svc.DeleteOption(ctx, f.status.FieldID, f.option(t, "Todo"))
	require.NoError(t, err)
	groups, err = f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"": {"plan"}, "In progress": {"write"}}, byName(groups))

	_, err = f.svc.RenameOption(ctx, f.status.FieldID, "Nope", "x")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = f.svc.AddOption(ctx, f.status.FieldID, "In progress")
	assert.ErrorIs(t, err, types.ErrDuplicateName)
}

func TestSetFieldTypeRebuilds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRow(t, "plan", "Todo")
	f.addRow(t, "write", "Doing")
	_, err := f.svc.Open(ctx, f.view.ViewID)
	require.NoError(t, err)

	field, err := f.svc.SetFieldType(ctx, f.status.FieldID, types.ValueTypeText, "")
	require.NoError(t, err)
	assert.Empty(t, field.Options)

	groups, err := f.svc.Groups(ctx, f.view.ViewID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, group.DefaultGroupID, groups[0].GroupID)
	assert.Equal(t, []string{"plan", "write"}, rowNames(groups[0]))

	ev, ok := f.events[len(f.events)-1].(*group.GroupsChangedEvent)
	require.True(t, ok)
	assert.Len(t, ev.Changeset.InsertedGroups, 1)

	_, err = f.svc.SetFieldType(ctx, f.status.FieldID, "colour", "")
	assert.ErrorIs(t, err, types.ErrInvalidValueType)
}

func TestSetViewField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	done, err := f.svc.CreateField(&types.Field{Name: "Done", ValueType: types.ValueTypeBoolean})
	require.NoError(t, err)
	row := f.addRow(t, "plan", "Todo")
	_, err = f.svc.UpdateRow(row.RowID, map[string]any{done.FieldID: true})
	require.NoError(t, err)

	c, err := f.svc.SetViewField(ctx, f.view.ViewID, done.FieldID)
	require.NoError(t, err)
	assert.Equal(t, done.FieldID, c.FieldID())
	assert.Equal(t, map[string][]string{"": {}, "Yes": {"plan"}}, byName(c.Groups()))

	v, err := f.store.Views().Get(f.view.ViewID)
	require.NoError(t, err)
	assert.Equal(t, done.FieldID, v.FieldID)
}

func TestStrategyFactoryFallsBack(t *testing.T) {
	var buf bytes.Buffer
	factory := strategyFactory(logging.NewWriterLogger(&buf, logging.LevelDebug))

	s, err := factory(&types.Field{FieldID: "due", Name: "Due", ValueType: types.ValueTypeTimestamp, DateGranularity: "fortnight"})
	require.NoError(t, err)
	_, isDefault := s.(*group.DefaultStrategy)
	assert.True(t, isDefault)
	assert.Contains(t, buf.String(), "using default")

	_, err = factory(&types.Field{Name: "no id"})
	assert.ErrorIs(t, err, types.ErrInvalidID)
}
