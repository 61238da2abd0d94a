package bridge

import (
	"context"

	"github.com/google/uuid"
)

// ListenerID identifies one subscription on a Source.
type ListenerID uuid.UUID

// String implements fmt.Stringer.
func (id ListenerID) String() string {
	return uuid.UUID(id).String()
}

// Handler consumes one event. A returned error is logged by the channel; it
// does not stop delivery to other handlers.
type Handler func(ctx context.Context, ev Event) error

// Source delivers plugin runtime events to subscribers.
//
// Implementations MUST invoke handlers one at a time, in arrival order, and
// never re-enter a handler while another is still running.
type Source interface {
	// Subscribe adds h for events of the given kind.
	Subscribe(kind Kind, h Handler) ListenerID

	// Unsubscribe removes exactly the handler registered under id. It
	// reports whether a handler was removed.
	Unsubscribe(kind Kind, id ListenerID) bool
}

// Invoker forwards application UI events to the plugin runtime.
type Invoker interface {
	InvokeUIEvent(ctx context.Context, ev UIEvent) error
}

// Channel is a full duplex bridge to a plugin runtime.
type Channel interface {
	Source
	Invoker

	// Run dispatches events until the context is cancelled or Close is
	// called.
	Run(ctx context.Context) error

	// Close stops the channel after delivering everything already queued.
	Close() error
}
