// Package metrics exposes Prometheus collectors for the plugin UI registry
// and the bridge feeding it.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/pluginui/internal/bridge"
	"github.com/specialistvlad/pluginui/internal/registry"
	"github.com/specialistvlad/pluginui/internal/uiid"
)

const namespace = "pluginui"

// Collector records registry mutations and bridge traffic. It implements
// registry.Observer.
type Collector struct {
	components prometheus.Gauge
	plugins    prometheus.Gauge
	mutations  *prometheus.CounterVec
	conflicts  prometheus.Counter
	events     *prometheus.CounterVec
}

var _ registry.Observer = (*Collector)(nil)

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		components: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "components",
			Help:      "Number of component ids currently owned by a plugin.",
		}),
		plugins: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "plugins",
			Help:      "Number of plugins owning at least one component.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "mutations_total",
			Help:      "Applied registry mutations by operation.",
		}, []string{"op"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "ownership_conflicts_total",
			Help:      "Component ids re-registered by a different plugin.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "events_total",
			Help:      "Bridge events delivered by kind.",
		}, []string{"kind"}),
	}

	for _, col := range []prometheus.Collector{c.components, c.plugins, c.mutations, c.conflicts, c.events} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("failed to register metrics collector: %w", err)
		}
	}
	return c, nil
}

// ObserveMutation implements registry.Observer.
func (c *Collector) ObserveMutation(op registry.Op, components, plugins int) {
	c.mutations.WithLabelValues(string(op)).Inc()
	c.components.Set(float64(components))
	c.plugins.Set(float64(plugins))
}

// ObserveConflict implements registry.Observer.
func (c *Collector) ObserveConflict(uiid.ComponentID, uiid.PluginID, uiid.PluginID) {
	c.conflicts.Inc()
}

// CountEvents subscribes to every bridge event kind and counts deliveries.
// The returned function removes those subscriptions.
func (c *Collector) CountEvents(src bridge.Source) func() {
	ids := make(map[bridge.Kind]bridge.ListenerID, len(bridge.Kinds))
	for _, kind := range bridge.Kinds {
		counter := c.events.WithLabelValues(string(kind))
		ids[kind] = src.Subscribe(kind, func(context.Context, bridge.Event) error {
			counter.Inc()
			return nil
		})
	}
	return func() {
		for kind, id := range ids {
			src.Unsubscribe(kind, id)
		}
	}
}
