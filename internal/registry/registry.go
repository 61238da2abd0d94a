package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/specialistvlad/pluginui/internal/ctxlog"
	"github.com/specialistvlad/pluginui/internal/defaults"
	"github.com/specialistvlad/pluginui/internal/uiid"
)

// ErrOwnershipConflict is returned in strict mode when a plugin tries to
// register a component id owned by another plugin.
var ErrOwnershipConflict = errors.New("component owned by another plugin")

// Registry holds the component ownership relation for a single host context.
type Registry struct {
	mu     sync.RWMutex
	owners map[uiid.ComponentID]uiid.PluginID
	owned  map[uiid.PluginID]*componentSet

	defaults *defaults.Table
	strict   bool
	logger   *slog.Logger
	observer Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithDefaults sets the default component table. Builtin is used otherwise.
func WithDefaults(t *defaults.Table) Option {
	return func(r *Registry) { r.defaults = t }
}

// WithStrictOwnership rejects cross-plugin re-registration when enabled.
func WithStrictOwnership(strict bool) Option {
	return func(r *Registry) { r.strict = strict }
}

// WithLogger sets the logger used when the caller's context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithObserver attaches an observer notified after every mutation.
func WithObserver(o Observer) Option {
	return func(r *Registry) { r.observer = o }
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		owners:   make(map[uiid.ComponentID]uiid.PluginID),
		owned:    make(map[uiid.PluginID]*componentSet),
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.defaults == nil {
		r.defaults = defaults.Builtin()
	}
	return r
}

// RegisterComponent makes p the owner of c. Registering an id that another
// plugin owns moves it to p; registering it again for the same plugin changes
// nothing.
func (r *Registry) RegisterComponent(ctx context.Context, c uiid.ComponentID, p uiid.PluginID) error {
	if err := uiid.ValidatePair(c, p); err != nil {
		return fmt.Errorf("register component: %w", err)
	}
	logger := ctxlog.FromContext(ctx, r.logger)

	r.mu.Lock()
	prev, owned := r.owners[c]
	if owned && prev == p {
		r.mu.Unlock()
		logger.Debug("Component already registered to plugin.", "component", c, "plugin", p)
		return nil
	}
	if owned && r.strict {
		r.mu.Unlock()
		logger.Warn("Rejected component registration owned by another plugin.", "component", c, "owner", prev, "plugin", p)
		return fmt.Errorf("register component '%s' for plugin '%s': %w (owner '%s')", c, p, ErrOwnershipConflict, prev)
	}
	if owned {
		r.detachLocked(c, prev)
	}
	r.owners[c] = p
	set, ok := r.owned[p]
	if !ok {
		set = newComponentSet()
		r.owned[p] = set
	}
	set.add(c)
	components, plugins := len(r.owners), len(r.owned)
	r.mu.Unlock()

	if owned {
		logger.Warn("Component ownership transferred between plugins.", "component", c, "previous_owner", prev, "plugin", p)
		r.observer.ObserveConflict(c, prev, p)
	} else {
		logger.Debug("Component registered.", "component", c, "plugin", p)
	}
	r.observer.ObserveMutation(OpRegister, components, plugins)
	return nil
}

// RemoveComponent drops c if, and only if, p currently owns it. Unknown ids
// and removals requested by other plugins are ignored.
func (r *Registry) RemoveComponent(ctx context.Context, c uiid.ComponentID, p uiid.PluginID) error {
	if err := uiid.ValidatePair(c, p); err != nil {
		return fmt.Errorf("remove component: %w", err)
	}
	logger := ctxlog.FromContext(ctx, r.logger)

	r.mu.Lock()
	owner, ok := r.owners[c]
	if !ok || owner != p {
		r.mu.Unlock()
		logger.Debug("Ignoring removal of component not owned by plugin.", "component", c, "plugin", p, "owner", owner)
		return nil
	}
	delete(r.owners, c)
	r.detachLocked(c, p)
	components, plugins := len(r.owners), len(r.owned)
	r.mu.Unlock()

	logger.Debug("Component removed.", "component", c, "plugin", p)
	r.observer.ObserveMutation(OpRemove, components, plugins)
	return nil
}

// OnPluginUnloaded drops every component owned by p in one step.
func (r *Registry) OnPluginUnloaded(ctx context.Context, p uiid.PluginID) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("unload plugin: %w", err)
	}
	logger := ctxlog.FromContext(ctx, r.logger)

	r.mu.Lock()
	set, ok := r.owned[p]
	if !ok {
		r.mu.Unlock()
		logger.Debug("Unloaded plugin had no registered components.", "plugin", p)
		return nil
	}
	for _, c := range set.ids {
		delete(r.owners, c)
	}
	delete(r.owned, p)
	removed := set.len()
	components, plugins := len(r.owners), len(r.owned)
	r.mu.Unlock()

	logger.Info("Released components of unloaded plugin.", "plugin", p, "components_removed", removed)
	r.observer.ObserveMutation(OpUnload, components, plugins)
	return nil
}

// detachLocked removes c from p's set and drops the set once it is empty.
// The caller must hold the write lock.
func (r *Registry) detachLocked(c uiid.ComponentID, p uiid.PluginID) {
	set, ok := r.owned[p]
	if !ok {
		return
	}
	set.remove(c)
	if set.len() == 0 {
		delete(r.owned, p)
	}
}

// ComponentExists reports whether any plugin owns c.
func (r *Registry) ComponentExists(c uiid.ComponentID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.owners[c]
	return ok
}

// ComponentOwner returns the plugin owning c.
func (r *Registry) ComponentOwner(c uiid.ComponentID) (uiid.PluginID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.owners[c]
	return p, ok
}

// RegisteredComponentsForPlugin returns the components owned by p in
// registration order. The boolean is false when p owns nothing; callers that
// only need "zero or more" can ignore it.
func (r *Registry) RegisteredComponentsForPlugin(p uiid.PluginID) ([]uiid.ComponentID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.owned[p]
	if !ok {
		return nil, false
	}
	return set.slice(), true
}
