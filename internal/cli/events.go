package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/boards/internal/event"
)

// eventLine is one line of the --events stream.
type eventLine struct {
	Type  string      `json:"type"`
	Event event.Event `json:"event"`
}

// watchEvents subscribes to every group change event of the invocation.
// Each event is logged; with --events it is also written to w as one JSON
// line. Every view is opened so that row and field changes reach all of
// them, not only the view a command names.
func (a *app) watchEvents(ctx context.Context, w io.Writer) error {
	a.subscription = a.svc.Bus().SubscribeAll(func(e event.Event) {
		a.logger.Debug("group event", "event_type", e.EventType())
		if !a.flags.events {
			return
		}
		line, err := json.Marshal(eventLine{Type: e.EventType(), Event: e})
		if err != nil {
			a.logger.Error("encode event", "event_type", e.EventType(), "error", err.Error())
			return
		}
		fmt.Fprintln(w, string(line))
	})
	if !a.flags.events {
		return nil
	}

	views, err := a.store.Views().List()
	if err != nil {
		return fmt.Errorf("list views: %w", err)
	}
	for _, v := range views {
		if _, err := a.svc.Open(ctx, v.ViewID); err != nil {
			return err
		}
	}
	return nil
}

// stopEvents drops the subscription made by watchEvents.
func (a *app) stopEvents() {
	if a.subscription == "" {
		return
	}
	a.svc.Bus().Unsubscribe(a.subscription)
	a.subscription = ""
}
