package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/pluginui/internal/uiid"
)

// Snapshot is a point-in-time copy of the ownership relation.
type Snapshot struct {
	Owners     map[uiid.ComponentID]uiid.PluginID
	Components map[uiid.PluginID][]uiid.ComponentID
}

// Snapshot copies the current state under the read lock.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Snapshot{
		Owners:     make(map[uiid.ComponentID]uiid.PluginID, len(r.owners)),
		Components: make(map[uiid.PluginID][]uiid.ComponentID, len(r.owned)),
	}
	for c, p := range r.owners {
		s.Owners[c] = p
	}
	for p, set := range r.owned {
		s.Components[p] = set.slice()
	}
	return s
}

// Plugins returns the plugins that own at least one component, sorted.
func (s Snapshot) Plugins() []uiid.PluginID {
	out := make([]uiid.PluginID, 0, len(s.Components))
	for p := range s.Components {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CheckInvariants verifies that the forward and inverse maps agree: every
// owned component is listed under its owner, every listed component points
// back at that owner, and no plugin keeps an empty set.
func (r *Registry) CheckInvariants() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []string
	for c, p := range r.owners {
		set, ok := r.owned[p]
		if !ok {
			errs = append(errs, fmt.Sprintf("component '%s' owned by '%s' which has no inverse entry", c, p))
			continue
		}
		if !set.has(c) {
			errs = append(errs, fmt.Sprintf("component '%s' missing from the set of its owner '%s'", c, p))
		}
	}

	listed := 0
	for p, set := range r.owned {
		if set.len() == 0 {
			errs = append(errs, fmt.Sprintf("plugin '%s' has an empty component set", p))
		}
		if len(set.index) != len(set.ids) {
			errs = append(errs, fmt.Sprintf("plugin '%s' has a corrupt component set", p))
		}
		for _, c := range set.ids {
			listed++
			if owner, ok := r.owners[c]; !ok || owner != p {
				errs = append(errs, fmt.Sprintf("plugin '%s' lists component '%s' owned by '%s'", p, c, owner))
			}
		}
	}
	if listed != len(r.owners) {
		errs = append(errs, fmt.Sprintf("inverse map lists %d components, forward map has %d", listed, len(r.owners)))
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("registry invariants violated:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
