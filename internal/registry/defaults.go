package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pluginui/internal/ctxlog"
	"github.com/specialistvlad/pluginui/internal/defaults"
	"github.com/zclconf/go-cty/cty"
)

// Default renders the default component id, using override instead of the
// baseline props when it is non-nil. An unknown id is a packaging error; it
// is logged at error level and returned wrapping defaults.ErrUnknownDefaultID.
func (r *Registry) Default(ctx context.Context, id defaults.ID, override *cty.Value) (defaults.Element, error) {
	el, err := r.defaults.Render(id, override)
	if err != nil {
		ctxlog.FromContext(ctx, r.logger).Error("Failed to render default component.", "default_id", id, "error", err)
		return defaults.Element{}, fmt.Errorf("get default: %w", err)
	}
	return el, nil
}

// DefaultCallable returns the factory of a default component without
// invoking it.
func (r *Registry) DefaultCallable(ctx context.Context, id defaults.ID) (defaults.Factory, error) {
	entry, err := r.defaults.Lookup(id)
	if err != nil {
		ctxlog.FromContext(ctx, r.logger).Error("Failed to resolve default component.", "default_id", id, "error", err)
		return nil, fmt.Errorf("get default callable: %w", err)
	}
	return entry.Factory, nil
}

// Defaults exposes the read-only default component table.
func (r *Registry) Defaults() *defaults.Table {
	return r.defaults
}
