package registry

import (
	"context"
	"sync"

	"github.com/specialistvlad/pluginui/internal/bridge"
	"github.com/specialistvlad/pluginui/internal/ctxlog"
)

// Attachment is the set of bridge subscriptions feeding a Registry.
type Attachment struct {
	src       bridge.Source
	listeners map[bridge.Kind]bridge.ListenerID
	once      sync.Once
}

// Attach subscribes the registry to the register, remove and unloaded events
// of src. Other event kinds are left to other consumers.
func (r *Registry) Attach(src bridge.Source) *Attachment {
	a := &Attachment{
		src: src,
		listeners: map[bridge.Kind]bridge.ListenerID{
			bridge.KindRegisterComponent: src.Subscribe(bridge.KindRegisterComponent, r.handleRegister),
			bridge.KindRemoveComponent:   src.Subscribe(bridge.KindRemoveComponent, r.handleRemove),
			bridge.KindPluginUnloaded:    src.Subscribe(bridge.KindPluginUnloaded, r.handleUnloaded),
		},
	}
	r.logger.Debug("Registry attached to bridge.", "listeners", len(a.listeners))
	return a
}

// Detach removes exactly the listeners added by Attach. It is safe to call
// more than once.
func (a *Attachment) Detach() {
	a.once.Do(func() {
		for kind, id := range a.listeners {
			a.src.Unsubscribe(kind, id)
		}
	})
}

func (r *Registry) handleRegister(ctx context.Context, ev bridge.Event) error {
	return r.RegisterComponent(ctx, ev.Component.ComponentID, ev.Component.PluginID)
}

func (r *Registry) handleRemove(ctx context.Context, ev bridge.Event) error {
	return r.RemoveComponent(ctx, ev.Component.ComponentID, ev.Component.PluginID)
}

func (r *Registry) handleUnloaded(ctx context.Context, ev bridge.Event) error {
	if !ev.Lifecycle.Success {
		ctxlog.FromContext(ctx, r.logger).Warn("Plugin reported a failed unload; releasing its components anyway.", "plugin", ev.Lifecycle.PluginID)
	}
	return r.OnPluginUnloaded(ctx, ev.Lifecycle.PluginID)
}
