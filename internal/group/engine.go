package group

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// classifier is the per-field-type part of a concrete strategy. The engine
// owns all membership and ordering state; a classifier only interprets cell
// values and field definitions. Classifiers are immutable and shared between
// clones.
type classifier interface {
	// valueType is the field value type the classifier interprets.
	valueType() string

	// classify returns the group a row's cell value belongs to. ok is false
	// when the value matches no explicit group.
	classify(field *types.Field, row *types.Row) (groupID string, ok bool)

	// describe returns the display name of groupID under field. ok is false
	// when the field no longer admits that group.
	describe(field *types.Field, groupID string) (name string, ok bool)

	// less orders group IDs naturally.
	less(field *types.Field, a, b string) bool

	// stamp writes the cell value that classifies row into groupID.
	stamp(field *types.Field, row *types.Row, groupID string)

	// candidates lists the group IDs the field enumerates, in natural order,
	// or nil when groups are open-ended.
	candidates(field *types.Field) []string

	// compatible reports whether field can be reconciled incrementally.
	compatible(field *types.Field) bool
}

// pin records a manual move. It holds while the row's classification equals
// key.
type pin struct {
	groupID string
	key     string
}

// engine implements Strategy for every classifier-backed field type.
//
// Explicit groups exist only while they hold rows; the default group, whose
// ID is the field ID, always exists. order keeps the user-defined position
// of every group ID seen so far, so a group that empties and comes back
// returns to its slot.
type engine struct {
	fieldID    string
	cls        classifier
	groups     []*Group
	order      []string
	keys       map[string]string // row ID -> content classification
	pins       map[string]pin    // row ID -> manual placement
	candidates []string          // candidates of the last field seen
}

var _ Strategy = (*engine)(nil)

func newEngine(field *types.Field, cls classifier) (*engine, error) {
	if field.ValueType != cls.valueType() {
		return nil, fmt.Errorf("%w: %s field %q", ErrInvalidFieldType, field.ValueType, field.FieldID)
	}
	e := &engine{
		fieldID: field.FieldID,
		cls:     cls,
		keys:    make(map[string]string),
		pins:    make(map[string]pin),
	}
	e.groups = []*Group{e.newDefaultGroup()}
	e.order = []string{e.fieldID}
	e.syncCandidates(field)
	return e, nil
}

func (e *engine) newDefaultGroup() *Group {
	return newGroup(e.fieldID, e.fieldID, "", true)
}

func (e *engine) defaultID() string { return e.fieldID }

func (e *engine) FieldID() string { return e.fieldID }

func (e *engine) Groups() []Group {
	out := make([]Group, len(e.groups))
	for i, g := range e.groups {
		out[i] = g.Clone()
	}
	return out
}

func (e *engine) GetGroup(groupID string) (int, Group, bool) {
	i := e.groupIndex(groupID)
	if i < 0 {
		return -1, Group{}, false
	}
	return i, e.groups[i].Clone(), true
}

func (e *engine) GroupOrder() []string {
	return append([]string(nil), e.order...)
}

// SetGroupOrder replaces the order list. The default group is kept even if
// order omits it. Current groups missing from order are appended in their
// natural order, so the result depends only on order and the groups shown.
func (e *engine) SetGroupOrder(order []string) {
	seen := make(map[string]bool, len(order))
	next := make([]string, 0, len(order)+len(e.groups))
	for _, id := range order {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		next = append(next, id)
	}
	if !seen[e.defaultID()] {
		next = append([]string{e.defaultID()}, next...)
		seen[e.defaultID()] = true
	}
	var missing []string
	for _, g := range e.groups {
		if !seen[g.GroupID] {
			missing = append(missing, g.GroupID)
		}
	}
	e.order = append(next, e.naturalOrder(missing)...)
	e.sortGroups()
}

// naturalOrder sorts ids by their position among the field's candidates.
// IDs the field does not enumerate follow, sorted by ID; date group IDs sort
// chronologically that way.
func (e *engine) naturalOrder(ids []string) []string {
	rank := make(map[string]int, len(e.candidates))
	for i, id := range e.candidates {
		rank[id] = i
	}
	slices.SortFunc(ids, func(a, b string) int {
		ra, okA := rank[a]
		rb, okB := rank[b]
		switch {
		case okA && okB:
			return cmp.Compare(ra, rb)
		case okA != okB:
			if okA {
				return -1
			}
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	return ids
}

func (e *engine) Clone() Strategy {
	cp := &engine{
		fieldID:    e.fieldID,
		cls:        e.cls,
		groups:     cloneGroups(e.groups),
		order:      append([]string(nil), e.order...),
		keys:       make(map[string]string, len(e.keys)),
		pins:       make(map[string]pin, len(e.pins)),
		candidates: append([]string(nil), e.candidates...),
	}
	for k, v := range e.keys {
		cp.keys[k] = v
	}
	for k, v := range e.pins {
		cp.pins[k] = v
	}
	return cp
}

func (e *engine) checkField(field *types.Field) error {
	if field.ValueType != e.cls.valueType() {
		return fmt.Errorf("%w: %s field %q", ErrInvalidFieldType, field.ValueType, field.FieldID)
	}
	return nil
}

func (e *engine) FillGroups(rows []*types.Row, field *types.Field) error {
	if err := e.checkField(field); err != nil {
		return err
	}
	if !e.cls.compatible(field) {
		return ErrRebuildRequired
	}

	e.groups = []*Group{e.newDefaultGroup()}
	e.keys = make(map[string]string, len(rows))
	e.syncCandidates(field)

	pins := make(map[string]pin, len(e.pins))
	for _, row := range rows {
		if _, seen := e.keys[row.RowID]; seen {
			continue
		}
		target, key := e.placement(field, row)
		if p, ok := e.pins[row.RowID]; ok && p.groupID == target {
			pins[row.RowID] = p
		}
		g, _ := e.materialize(field, target)
		g.addRow(Summarize(row))
		e.keys[row.RowID] = key
	}
	e.pins = pins
	return nil
}

func (e *engine) MoveGroup(fromGroupID, toGroupID string) error {
	from := e.groupIndex(fromGroupID)
	if from < 0 {
		return fmt.Errorf("move group %q: %w", fromGroupID, ErrUnknownGroup)
	}
	to := e.groupIndex(toGroupID)
	if to < 0 {
		return fmt.Errorf("move group to %q: %w", toGroupID, ErrUnknownGroup)
	}
	if from == to {
		return nil
	}

	g := e.groups[from]
	e.groups = append(e.groups[:from], e.groups[from+1:]...)
	e.groups = append(e.groups[:to], append([]*Group{g}, e.groups[to:]...)...)

	e.order = removeID(e.order, fromGroupID)
	k := indexOf(e.order, toGroupID)
	if from < to {
		k++
	}
	e.order = insertID(e.order, fromGroupID, k)
	return nil
}

func (e *engine) DidUpdateGroupRow(oldRow, row *types.Row, field *types.Field) (*DidUpdateGroupRowResult, error) {
	if err := e.checkField(field); err != nil {
		return nil, err
	}
	if oldRow != nil && !reflect.DeepEqual(oldRow.Cell(e.fieldID), row.Cell(e.fieldID)) {
		delete(e.pins, row.RowID)
	}

	res := &DidUpdateGroupRowResult{RowChangesets: []RowChangeset{}}
	target, key := e.placement(field, row)
	e.keys[row.RowID] = key
	summary := Summarize(row)

	src, ri := e.locate(row.RowID)
	if src != nil && src.GroupID == target {
		if src.Rows[ri] != summary {
			src.Rows[ri] = summary
			res.RowChangesets = append(res.RowChangesets, updated(src.GroupID, summary, ri))
		}
		return res, nil
	}

	if src != nil {
		src.removeRowAt(ri)
		res.RowChangesets = append(res.RowChangesets, deleted(src.GroupID, row.RowID, ri))
	}

	dst, created := e.materialize(field, target)
	idx := dst.addRow(summary)
	res.RowChangesets = append(res.RowChangesets, inserted(dst.GroupID, summary, idx))
	if created {
		cp := dst.Clone()
		res.InsertedGroup = &cp
	}

	if src != nil && e.dropIfEmpty(src) {
		res.DeletedGroup = src.GroupID
	}
	return res, nil
}

func (e *engine) DidDeleteRow(row *types.Row, field *types.Field) (*DidMoveGroupRowResult, error) {
	if err := e.checkField(field); err != nil {
		return nil, err
	}
	res := &DidMoveGroupRowResult{RowChangesets: []RowChangeset{}}
	delete(e.keys, row.RowID)
	delete(e.pins, row.RowID)

	src, ri := e.locate(row.RowID)
	if src == nil {
		return res, nil
	}
	src.removeRowAt(ri)
	res.RowChangesets = append(res.RowChangesets, deleted(src.GroupID, row.RowID, ri))
	if e.dropIfEmpty(src) {
		res.DeletedGroup = src.GroupID
	}
	return res, nil
}

func (e *engine) MoveGroupRow(ctx MoveGroupRowContext) (*DidMoveGroupRowResult, error) {
	fi := e.groupIndex(ctx.FromGroupID)
	if fi < 0 {
		return nil, fmt.Errorf("move row from %q: %w", ctx.FromGroupID, ErrUnknownGroup)
	}
	ti := e.groupIndex(ctx.ToGroupID)
	if ti < 0 {
		return nil, fmt.Errorf("move row to %q: %w", ctx.ToGroupID, ErrUnknownGroup)
	}
	src, dst := e.groups[fi], e.groups[ti]
	ri := src.RowIndex(ctx.RowID)
	if ri < 0 {
		return nil, fmt.Errorf("move row %q from %q: %w", ctx.RowID, ctx.FromGroupID, ErrRowNotInGroup)
	}

	res := &DidMoveGroupRowResult{RowChangesets: []RowChangeset{}}
	if src == dst {
		row := src.removeRowAt(ri)
		idx := src.insertRow(row, ctx.ToIndex)
		if idx != ri {
			res.RowChangesets = append(res.RowChangesets, moved(src.GroupID, row.RowID, idx))
		}
		return res, nil
	}

	row := src.removeRowAt(ri)
	res.RowChangesets = append(res.RowChangesets, deleted(src.GroupID, row.RowID, ri))
	idx := dst.insertRow(row, ctx.ToIndex)
	res.RowChangesets = append(res.RowChangesets, inserted(dst.GroupID, row, idx))

	if key, ok := e.keys[row.RowID]; ok && key == dst.GroupID {
		delete(e.pins, row.RowID)
	} else {
		e.pins[row.RowID] = pin{groupID: dst.GroupID, key: key}
	}

	if e.dropIfEmpty(src) {
		res.DeletedGroup = src.GroupID
	}
	return res, nil
}

func (e *engine) DidUpdateGroupField(field *types.Field) (*GroupChangeset, error) {
	if field.ValueType != e.cls.valueType() || !e.cls.compatible(field) {
		return nil, ErrRebuildRequired
	}
	cs := &GroupChangeset{FieldID: e.fieldID}
	def := e.groups[e.groupIndex(e.defaultID())]

	migrated := false
	for _, g := range append([]*Group(nil), e.groups...) {
		if g.IsDefault {
			continue
		}
		name, ok := e.cls.describe(field, g.GroupID)
		if !ok {
			for _, r := range g.Rows {
				def.addRow(r)
				e.keys[r.RowID] = def.GroupID
				delete(e.pins, r.RowID)
			}
			e.groups = removeGroup(e.groups, g)
			e.order = removeID(e.order, g.GroupID)
			cs.DeletedGroupIDs = append(cs.DeletedGroupIDs, g.GroupID)
			migrated = true
			continue
		}
		if name != g.Name {
			g.Name = name
			cs.UpdatedGroups = append(cs.UpdatedGroups, g.Clone())
		}
	}
	if migrated {
		cs.UpdatedGroups = append(cs.UpdatedGroups, def.Clone())
	}
	for rowID, p := range e.pins {
		if p.groupID == e.defaultID() {
			continue
		}
		if _, ok := e.cls.describe(field, p.groupID); !ok {
			delete(e.pins, rowID)
		}
	}

	if e.syncCandidates(field) {
		cs.GroupOrder = e.GroupOrder()
	}

	if cs.IsEmpty() {
		return nil, nil
	}
	return cs, nil
}

func (e *engine) WillCreateRow(row *types.Row, field *types.Field, groupID string) {
	if groupID == e.defaultID() {
		row.ClearCell(e.fieldID)
		return
	}
	if _, ok := e.cls.describe(field, groupID); !ok {
		return
	}
	e.cls.stamp(field, row, groupID)
}

func (e *engine) DidCreateRow(row RowSummary, groupID string) {
	i := e.groupIndex(groupID)
	if i < 0 {
		return
	}
	if g, _ := e.locate(row.RowID); g != nil {
		return
	}
	e.groups[i].addRow(row)
	e.keys[row.RowID] = groupID
}

// placement returns the group a row belongs in, honoring a pin while the
// row's classification is unchanged, and the row's content classification.
func (e *engine) placement(field *types.Field, row *types.Row) (target, key string) {
	key = e.defaultID()
	if id, ok := e.cls.classify(field, row); ok {
		key = id
	}
	p, ok := e.pins[row.RowID]
	if !ok {
		return key, key
	}
	if p.key == key && e.admits(field, p.groupID) {
		return p.groupID, key
	}
	delete(e.pins, row.RowID)
	return key, key
}

func (e *engine) admits(field *types.Field, groupID string) bool {
	if groupID == e.defaultID() {
		return true
	}
	_, ok := e.cls.describe(field, groupID)
	return ok
}

// materialize returns the group with groupID, creating it at its ordered
// position when absent.
func (e *engine) materialize(field *types.Field, groupID string) (*Group, bool) {
	if i := e.groupIndex(groupID); i >= 0 {
		return e.groups[i], false
	}
	name, _ := e.cls.describe(field, groupID)
	g := newGroup(groupID, e.fieldID, name, false)
	e.placeInOrder(field, groupID)

	rank := indexOf(e.order, groupID)
	pos := 0
	for pos < len(e.groups) && indexOf(e.order, e.groups[pos].GroupID) < rank {
		pos++
	}
	e.groups = append(e.groups[:pos], append([]*Group{g}, e.groups[pos:]...)...)
	return g, true
}

// placeInOrder inserts groupID into the order list at its natural position
// unless it is already known.
func (e *engine) placeInOrder(field *types.Field, groupID string) {
	if indexOf(e.order, groupID) >= 0 {
		return
	}
	for i, id := range e.order {
		if id != e.defaultID() && e.cls.less(field, groupID, id) {
			e.order = insertID(e.order, groupID, i)
			return
		}
	}
	e.order = append(e.order, groupID)
}

// syncCandidates folds the field's enumerated groups into the order list.
// When the field reorders groups it already enumerated, the field's order
// wins. Reports whether the order list was rebuilt.
func (e *engine) syncCandidates(field *types.Field) bool {
	next := e.cls.candidates(field)
	prev := e.candidates
	e.candidates = append([]string(nil), next...)
	if next == nil {
		return false
	}

	if reordered(prev, next) {
		inNext := make(map[string]bool, len(next))
		for _, id := range next {
			inNext[id] = true
		}
		order := []string{e.defaultID()}
		order = append(order, next...)
		for _, id := range e.order {
			if id != e.defaultID() && !inNext[id] {
				order = append(order, id)
			}
		}
		e.order = order
		e.sortGroups()
		return true
	}
	for _, id := range next {
		e.placeInOrder(field, id)
	}
	return false
}

// reordered reports whether the IDs present in both lists appear in a
// different relative order.
func reordered(prev, next []string) bool {
	inPrev := make(map[string]bool, len(prev))
	for _, id := range prev {
		inPrev[id] = true
	}
	inNext := make(map[string]bool, len(next))
	for _, id := range next {
		inNext[id] = true
	}
	var a, b []string
	for _, id := range prev {
		if inNext[id] {
			a = append(a, id)
		}
	}
	for _, id := range next {
		if inPrev[id] {
			b = append(b, id)
		}
	}
	return !reflect.DeepEqual(a, b)
}

func (e *engine) sortGroups() {
	rank := make(map[string]int, len(e.order))
	for i, id := range e.order {
		rank[id] = i
	}
	sorted := make([]*Group, 0, len(e.groups))
	for _, id := range e.order {
		if i := e.groupIndex(id); i >= 0 {
			sorted = append(sorted, e.groups[i])
		}
	}
	for _, g := range e.groups {
		if _, ok := rank[g.GroupID]; !ok {
			sorted = append(sorted, g)
		}
	}
	e.groups = sorted
}

// dropIfEmpty removes g when it is an empty non-default group.
func (e *engine) dropIfEmpty(g *Group) bool {
	if g.IsDefault || len(g.Rows) > 0 {
		return false
	}
	e.groups = removeGroup(e.groups, g)
	return true
}

func (e *engine) groupIndex(groupID string) int {
	for i, g := range e.groups {
		if g.GroupID == groupID {
			return i
		}
	}
	return -1
}

func (e *engine) locate(rowID string) (*Group, int) {
	for _, g := range e.groups {
		if i := g.RowIndex(rowID); i >= 0 {
			return g, i
		}
	}
	return nil, -1
}

func removeGroup(groups []*Group, g *Group) []*Group {
	for i, cur := range groups {
		if cur == g {
			return append(groups[:i], groups[i+1:]...)
		}
	}
	return groups
}

func indexOf(ids []string, id string) int {
	for i, cur := range ids {
		if cur == id {
			return i
		}
	}
	return -1
}

func removeID(ids []string, id string) []string {
	if i := indexOf(ids, id); i >= 0 {
		return append(ids[:i], ids[i+1:]...)
	}
	return ids
}

func insertID(ids []string, id string, at int) []string {
	if at < 0 || at >= len(ids) {
		return append(ids, id)
	}
	ids = append(ids, "")
	copy(ids[at+1:], ids[at:])
	ids[at] = id
	return ids
}
