package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	// ErrClosed is returned when publishing to a closed channel.
	ErrClosed = errors.New("bridge channel closed")
	// ErrReentrant is returned when a handler tries to publish synchronously.
	ErrReentrant = errors.New("synchronous publish from inside an event handler")
	// ErrQueueFull is returned when a handler publishes into a full queue.
	ErrQueueFull = errors.New("bridge queue full")
	// ErrNoInvoker is returned when no runtime accepts outbound UI events.
	ErrNoInvoker = errors.New("no plugin runtime attached for ui events")
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("bridge channel already running")
)

// DefaultQueueSize is the event buffer used when none is configured.
const DefaultQueueSize = 64

// InvokeFunc delivers an outbound UI event to the plugin runtime.
type InvokeFunc func(ctx context.Context, ev UIEvent) error

type listener struct {
	id      ListenerID
	handler Handler
}

type envelope struct {
	ev  Event
	ack chan struct{}
}

type dispatchKey struct{}

// Local is an in-process Channel. Events are queued FIFO and dispatched by the
// single goroutine running Run, which gives every subscriber the
// one-at-a-time, arrival-order guarantee the Source contract requires.
type Local struct {
	logger *slog.Logger
	invoke InvokeFunc

	mu        sync.RWMutex
	listeners map[Kind][]listener

	// slots holds one token per queued or in-flight send, so a blocked
	// publisher waits without holding pubMu.
	slots   chan struct{}
	pubMu   sync.RWMutex
	closing bool
	stopped bool
	queue   chan envelope

	started   atomic.Bool
	done      chan struct{}
	closeCh   chan struct{}
	closeOnce sync.Once
}

// LocalOption configures a Local channel.
type LocalOption func(*Local)

// WithLogger sets the logger used for dropped events and handler failures.
func WithLogger(logger *slog.Logger) LocalOption {
	return func(l *Local) { l.logger = logger }
}

// WithQueueSize sets the number of events buffered ahead of dispatch.
func WithQueueSize(n int) LocalOption {
	return func(l *Local) {
		if n > 0 {
			l.queue = make(chan envelope, n)
		}
	}
}

// WithInvokeFunc sets the runtime callback for outbound UI events.
func WithInvokeFunc(fn InvokeFunc) LocalOption {
	return func(l *Local) { l.invoke = fn }
}

// NewLocal creates an in-process channel. Call Run to start dispatching.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{
		logger:    slog.Default(),
		listeners: make(map[Kind][]listener),
		queue:     make(chan envelope, DefaultQueueSize),
		done:      make(chan struct{}),
		closeCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.slots = make(chan struct{}, cap(l.queue))
	return l
}

// Subscribe implements Source.
func (l *Local) Subscribe(kind Kind, h Handler) ListenerID {
	id := ListenerID(uuid.New())
	l.mu.Lock()
	l.listeners[kind] = append(l.listeners[kind], listener{id: id, handler: h})
	l.mu.Unlock()
	l.logger.Debug("Bridge listener subscribed.", "kind", kind, "listener", id.String())
	return id
}

// Unsubscribe implements Source.
func (l *Local) Unsubscribe(kind Kind, id ListenerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.listeners[kind]
	for i, ln := range current {
		if ln.id != id {
			continue
		}
		rest := make([]listener, 0, len(current)-1)
		rest = append(rest, current[:i]...)
		rest = append(rest, current[i+1:]...)
		if len(rest) == 0 {
			delete(l.listeners, kind)
		} else {
			l.listeners[kind] = rest
		}
		l.logger.Debug("Bridge listener unsubscribed.", "kind", kind, "listener", id.String())
		return true
	}
	return false
}

// ListenerCount returns the number of handlers subscribed to kind.
func (l *Local) ListenerCount(kind Kind) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.listeners[kind])
}

// Publish queues ev for dispatch and returns without waiting for handlers.
func (l *Local) Publish(ctx context.Context, ev Event) error {
	return l.enqueue(ctx, envelope{ev: ev})
}

// PublishSync queues ev and waits until every handler for it has returned.
// It must not be called from inside a handler.
func (l *Local) PublishSync(ctx context.Context, ev Event) error {
	if inDispatch(ctx) {
		return ErrReentrant
	}
	ack := make(chan struct{})
	if err := l.enqueue(ctx, envelope{ev: ev, ack: ack}); err != nil {
		return err
	}

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case <-ack:
			return nil
		default:
			return ErrClosed
		}
	}
}

func (l *Local) enqueue(ctx context.Context, env envelope) error {
	if err := l.acquire(ctx); err != nil {
		return err
	}

	l.pubMu.RLock()
	defer l.pubMu.RUnlock()
	if l.closing || l.stopped {
		<-l.slots
		return ErrClosed
	}
	// Never blocks: the slot reserves room in the queue.
	l.queue <- env
	return nil
}

// acquire reserves queue room for one event.
func (l *Local) acquire(ctx context.Context) error {
	if inDispatch(ctx) {
		// The dispatcher is busy running us; blocking here would deadlock.
		select {
		case l.slots <- struct{}{}:
			return nil
		default:
			return ErrQueueFull
		}
	}

	select {
	case <-l.closeCh:
		return ErrClosed
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-l.closeCh:
		return ErrClosed
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run dispatches queued events until ctx is cancelled or Close drains the
// queue.
func (l *Local) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		l.pubMu.Lock()
		l.stopped = true
		l.pubMu.Unlock()
		close(l.done)
	}()

	l.logger.Debug("Bridge dispatcher started.")
	dctx := context.WithValue(ctx, dispatchKey{}, true)
	for {
		select {
		case env, ok := <-l.queue:
			if !ok {
				l.logger.Debug("Bridge dispatcher drained and stopped.")
				return nil
			}
			<-l.slots
			l.dispatch(dctx, env)
		case <-ctx.Done():
			l.logger.Debug("Bridge dispatcher cancelled.", "error", ctx.Err())
			return ctx.Err()
		}
	}
}

func (l *Local) dispatch(ctx context.Context, env envelope) {
	if env.ack != nil {
		defer close(env.ack)
	}

	ev := env.ev
	if err := ev.Validate(); err != nil {
		l.logger.Warn("Dropping invalid bridge event.", "kind", ev.Kind, "error", err)
		return
	}

	l.mu.RLock()
	handlers := append([]listener(nil), l.listeners[ev.Kind]...)
	l.mu.RUnlock()

	for _, ln := range handlers {
		if err := ln.handler(ctx, ev); err != nil {
			l.logger.Warn("Bridge event handler failed.", "kind", ev.Kind, "plugin", ev.PluginID(), "listener", ln.id.String(), "error", err)
		}
	}
}

// Close stops accepting events, waits for the dispatcher to drain what is
// already queued and then returns.
func (l *Local) Close() error {
	l.closeOnce.Do(func() {
		close(l.closeCh)
		l.pubMu.Lock()
		l.closing = true
		close(l.queue)
		l.pubMu.Unlock()
	})
	if l.started.Load() {
		<-l.done
	}
	return nil
}

// InvokeUIEvent implements Invoker.
func (l *Local) InvokeUIEvent(ctx context.Context, ev UIEvent) error {
	if err := ev.PluginID.Validate(); err != nil {
		return fmt.Errorf("invoke ui event '%s': %w", ev.EventID, err)
	}
	if l.invoke == nil {
		return ErrNoInvoker
	}
	l.logger.Debug("Forwarding ui event to plugin.", "plugin", ev.PluginID, "event", ev.EventID)
	return l.invoke(ctx, ev)
}

func inDispatch(ctx context.Context) bool {
	v, _ := ctx.Value(dispatchKey{}).(bool)
	return v
}
