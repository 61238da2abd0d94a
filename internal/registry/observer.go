package registry

import "github.com/specialistvlad/pluginui/internal/uiid"

// Op names a registry mutation.
type Op string

const (
	OpRegister Op = "register"
	OpRemove   Op = "remove"
	OpUnload   Op = "unload"
)

// Observer is notified after a mutation has been applied. Calls happen
// outside the registry lock and must not block.
type Observer interface {
	// ObserveMutation reports the op and the resulting map sizes.
	ObserveMutation(op Op, components, plugins int)

	// ObserveConflict reports a component moving between plugins.
	ObserveConflict(c uiid.ComponentID, previous, next uiid.PluginID)
}

type nopObserver struct{}

func (nopObserver) ObserveMutation(Op, int, int) {}

func (nopObserver) ObserveConflict(uiid.ComponentID, uiid.PluginID, uiid.PluginID) {}
