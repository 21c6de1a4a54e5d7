// Package view hosts the grouping engine: it keeps one group.Controller per
// opened view, persists every mutation through a types.Store before
// forwarding it to the controllers, and publishes their change events on an
// event.Bus.
package view

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mesh-intelligence/boards/internal/event"
	"github.com/mesh-intelligence/boards/internal/group"
	"github.com/mesh-intelligence/boards/internal/logging"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. Controllers log through child loggers.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBus publishes controller events on b instead of a private bus.
func WithBus(b *event.Bus) Option {
	return func(s *Service) {
		if b != nil {
			s.bus = b
		}
	}
}

// Service is safe for concurrent use.
type Service struct {
	store  types.Store
	bus    *event.Bus
	logger *logging.Logger

	mu          sync.Mutex
	controllers map[string]*group.Controller
	opening     singleflight.Group
}

// NewService creates a service over an attached store.
func NewService(store types.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		logger:      logging.NopLogger(),
		controllers: make(map[string]*group.Controller),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = event.NewBus(s.logger)
	}
	return s
}

// Bus returns the bus controller events are published on.
func (s *Service) Bus() *event.Bus { return s.bus }

// CreateView stores a new view grouped by fieldID.
func (s *Service) CreateView(name, fieldID string) (*types.View, error) {
	v := &types.View{Name: name, FieldID: fieldID}
	if _, err := s.store.Views().Set(v); err != nil {
		return nil, fmt.Errorf("create view %q: %w", name, err)
	}
	s.logger.Info("view created", "view_id", v.ViewID, "field_id", fieldID)
	return v, nil
}

// Open returns the controller of viewID, building it on first use.
// Concurrent opens of the same view build one controller.
func (s *Service) Open(ctx context.Context, viewID string) (*group.Controller, error) {
	if c := s.cached(viewID); c != nil {
		return c, nil
	}
	v, err, _ := s.opening.Do(viewID, func() (any, error) {
		if c := s.cached(viewID); c != nil {
			return c, nil
		}
		c, err := s.newController(ctx, viewID)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.controllers[viewID] = c
		s.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*group.Controller), nil
}

func (s *Service) cached(viewID string) *group.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controllers[viewID]
}

func (s *Service) newController(ctx context.Context, viewID string) (*group.Controller, error) {
	v, err := s.store.Views().Get(viewID)
	if err != nil {
		return nil, fmt.Errorf("open view %s: %w", viewID, err)
	}
	field, err := s.store.Fields().Get(v.FieldID)
	if err != nil {
		return nil, fmt.Errorf("open view %s: field %s: %w", viewID, v.FieldID, err)
	}
	logger := s.logger.WithView(viewID)
	c, err := group.NewController(ctx, viewID, field, s.loadRows,
		group.WithLogger(s.logger),
		group.WithPublisher(s.bus),
		group.WithGroupOrder(v.GroupOrder),
		group.WithStrategyFactory(strategyFactory(logger)))
	if err != nil {
		return nil, fmt.Errorf("open view %s: %w", viewID, err)
	}
	logger.Debug("view opened", "field_id", field.FieldID, "groups", len(c.Groups()))
	return c, nil
}

// strategyFactory falls back to the default strategy when no concrete
// strategy can be built for a field.
func strategyFactory(logger *logging.Logger) group.StrategyFactory {
	return func(field *types.Field) (group.Strategy, error) {
		st, err := group.NewStrategy(field)
		if err == nil {
			return st, nil
		}
		if errors.Is(err, types.ErrInvalidID) {
			return nil, err
		}
		logger.Warn("grouping strategy unavailable, using default",
			"field_id", field.FieldID, "value_type", field.ValueType, "error", err.Error())
		return group.NewDefaultStrategy(field), nil
	}
}

func (s *Service) loadRows(context.Context) ([]*types.Row, error) {
	return s.store.Rows().List()
}

// Close forgets every open controller.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.controllers)
}

// Groups returns the groups of viewID in display order.
func (s *Service) Groups(ctx context.Context, viewID string) ([]group.Group, error) {
	c, err := s.Open(ctx, viewID)
	if err != nil {
		return nil, err
	}
	return c.Groups(), nil
}

// MoveGroup reorders the groups of viewID and persists the new order.
func (s *Service) MoveGroup(ctx context.Context, viewID, fromGroupID, toGroupID string) (*group.GroupsChangedEvent, error) {
	c, err := s.Open(ctx, viewID)
	if err != nil {
		return nil, err
	}
	ev, err := c.MoveGroup(fromGroupID, toGroupID)
	if err != nil {
		return nil, fmt.Errorf("move group %s: %w", fromGroupID, err)
	}
	if len(ev.Changeset.GroupOrder) > 0 {
		if err := s.store.Views().SetGroupOrder(viewID, c.GroupOrder()); err != nil {
			return nil, fmt.Errorf("persist group order: %w", err)
		}
	}
	return ev, nil
}

// MoveRow moves a row between groups of viewID. The row's cells are not
// touched; the placement lasts until the row's grouping value changes.
func (s *Service) MoveRow(ctx context.Context, viewID string, move group.MoveGroupRowContext) (*group.RowsChangedEvent, error) {
	c, err := s.Open(ctx, viewID)
	if err != nil {
		return nil, err
	}
	return c.MoveGroupRow(move)
}

// SetViewField regroups viewID by fieldID. The view's controller is rebuilt;
// a group order saved earlier for fieldID is restored.
func (s *Service) SetViewField(ctx context.Context, viewID, fieldID string) (*group.Controller, error) {
	v, err := s.store.Views().Get(viewID)
	if err != nil {
		return nil, fmt.Errorf("set view field: %w", err)
	}
	v.FieldID = fieldID
	v.GroupOrder = nil
	if _, err := s.store.Views().Set(v); err != nil {
		return nil, fmt.Errorf("set view field: %w", err)
	}
	s.mu.Lock()
	delete(s.controllers, viewID)
	s.mu.Unlock()
	return s.Open(ctx, viewID)
}

// open returns a snapshot of the open controllers, ordered by view ID.
func (s *Service) open() []*group.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.controllers))
	for id := range s.controllers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*group.Controller, len(ids))
	for i, id := range ids {
		out[i] = s.controllers[id]
	}
	return out
}

// fields caches field lookups for the duration of one notification pass.
type fields struct {
	table types.FieldTable
	byID  map[string]*types.Field
}

func (f *fields) get(id string) (*types.Field, error) {
	if fd, ok := f.byID[id]; ok {
		return fd, nil
	}
	fd, err := f.table.Get(id)
	if err != nil {
		return nil, err
	}
	if f.byID == nil {
		f.byID = make(map[string]*types.Field)
	}
	f.byID[id] = fd
	return fd, nil
}

// notify runs fn for every open controller with its current field. Failures
// are logged and joined; one view failing does not stop the others.
func (s *Service) notify(op string, fn func(c *group.Controller, field *types.Field) error) error {
	lookup := &fields{table: s.store.Fields()}
	var errs []error
	for _, c := range s.open() {
		field, err := lookup.get(c.FieldID())
		if err == nil {
			err = fn(c, field)
		}
		if err != nil {
			s.logger.WithView(c.ViewID()).Error(op+" failed", "error", err.Error())
			errs = append(errs, fmt.Errorf("view %s: %w", c.ViewID(), err))
		}
	}
	return errors.Join(errs...)
}
