package socketio

import (
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/pluginui/internal/bridge"
)

// decodeEvent turns the arguments of a socket.io event into a bridge.Event.
// Runtimes send the payload either as a JSON object or as a JSON string.
func decodeEvent(kind bridge.Kind, args []any) (bridge.Event, error) {
	if len(args) == 0 {
		return bridge.Event{}, fmt.Errorf("event '%s' carries no payload", kind)
	}

	var raw []byte
	switch v := args[0].(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return bridge.Event{}, fmt.Errorf("event '%s': could not re-encode payload: %w", kind, err)
		}
		raw = b
	}

	ev := bridge.Event{Kind: kind}
	var target any
	switch kind {
	case bridge.KindRegisterComponent, bridge.KindRemoveComponent:
		ev.Component = &bridge.ComponentPayload{}
		target = ev.Component
	case bridge.KindPluginLoaded, bridge.KindPluginInitialized, bridge.KindPluginUnloaded:
		ev.Lifecycle = &bridge.LifecyclePayload{}
		target = ev.Lifecycle
	case bridge.KindLog, bridge.KindError:
		ev.Message = &bridge.MessagePayload{}
		target = ev.Message
	default:
		return bridge.Event{}, fmt.Errorf("unknown event kind '%s'", kind)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return bridge.Event{}, fmt.Errorf("event '%s': malformed payload: %w", kind, err)
	}
	return ev, ev.Validate()
}

func encodeUIEvent(ev bridge.UIEvent) map[string]any {
	out := map[string]any{
		"pluginId": string(ev.PluginID),
		"eventId":  ev.EventID,
	}
	if ev.Data != nil {
		out["eventData"] = ev.Data
	}
	return out
}
