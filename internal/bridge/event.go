package bridge

import (
	"fmt"

	"github.com/specialistvlad/pluginui/internal/uiid"
)

// Kind discriminates the events a plugin runtime emits.
type Kind string

const (
	KindRegisterComponent Kind = "registerComponent"
	KindRemoveComponent   Kind = "removeComponent"
	KindPluginLoaded      Kind = "onPluginLoaded"
	KindPluginInitialized Kind = "onPluginInitialized"
	KindPluginUnloaded    Kind = "onPluginUnloaded"
	KindLog               Kind = "onLog"
	KindError             Kind = "onError"
)

// Kinds lists every event kind the bridge understands.
var Kinds = []Kind{
	KindRegisterComponent,
	KindRemoveComponent,
	KindPluginLoaded,
	KindPluginInitialized,
	KindPluginUnloaded,
	KindLog,
	KindError,
}

// ComponentPayload is carried by register/remove events.
type ComponentPayload struct {
	PluginID    uiid.PluginID    `json:"pluginId"`
	ComponentID uiid.ComponentID `json:"componentId"`
}

// LifecyclePayload is carried by plugin lifecycle events.
type LifecyclePayload struct {
	PluginID uiid.PluginID `json:"pluginId"`
	Success  bool          `json:"success"`
}

// MessagePayload is carried by log and error events.
type MessagePayload struct {
	PluginID uiid.PluginID `json:"pluginId"`
	Level    string        `json:"level,omitempty"`
	Message  string        `json:"message"`
}

// Event is one logical message from the plugin runtime.
type Event struct {
	Kind      Kind
	Component *ComponentPayload
	Lifecycle *LifecyclePayload
	Message   *MessagePayload
}

// ComponentEvent builds a register or remove event.
func ComponentEvent(kind Kind, c uiid.ComponentID, p uiid.PluginID) Event {
	return Event{Kind: kind, Component: &ComponentPayload{PluginID: p, ComponentID: c}}
}

// LifecycleEvent builds a loaded, initialized or unloaded event.
func LifecycleEvent(kind Kind, p uiid.PluginID, success bool) Event {
	return Event{Kind: kind, Lifecycle: &LifecyclePayload{PluginID: p, Success: success}}
}

// MessageEvent builds a log or error event.
func MessageEvent(kind Kind, p uiid.PluginID, level, message string) Event {
	return Event{Kind: kind, Message: &MessagePayload{PluginID: p, Level: level, Message: message}}
}

// Validate checks that the event carries the payload its kind requires.
func (e Event) Validate() error {
	switch e.Kind {
	case KindRegisterComponent, KindRemoveComponent:
		if e.Component == nil {
			return fmt.Errorf("event '%s': missing component payload", e.Kind)
		}
		if err := uiid.ValidatePair(e.Component.ComponentID, e.Component.PluginID); err != nil {
			return fmt.Errorf("event '%s': %w", e.Kind, err)
		}
	case KindPluginLoaded, KindPluginInitialized, KindPluginUnloaded:
		if e.Lifecycle == nil {
			return fmt.Errorf("event '%s': missing lifecycle payload", e.Kind)
		}
		if err := e.Lifecycle.PluginID.Validate(); err != nil {
			return fmt.Errorf("event '%s': %w", e.Kind, err)
		}
	case KindLog, KindError:
		if e.Message == nil {
			return fmt.Errorf("event '%s': missing message payload", e.Kind)
		}
	default:
		return fmt.Errorf("unknown event kind '%s'", e.Kind)
	}
	return nil
}

// PluginID returns the plugin the event concerns, if any.
func (e Event) PluginID() uiid.PluginID {
	switch {
	case e.Component != nil:
		return e.Component.PluginID
	case e.Lifecycle != nil:
		return e.Lifecycle.PluginID
	case e.Message != nil:
		return e.Message.PluginID
	}
	return ""
}

// UIEvent is an application UI event forwarded to a plugin.
type UIEvent struct {
	PluginID uiid.PluginID `json:"pluginId"`
	EventID  string        `json:"eventId"`
	Data     any           `json:"eventData,omitempty"`
}
