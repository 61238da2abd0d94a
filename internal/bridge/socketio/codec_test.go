package socketio

import (
	"context"
	"testing"

	"github.com/specialistvlad/pluginui/internal/bridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	testCases := []struct {
		name    string
		kind    bridge.Kind
		args    []any
		want    bridge.Event
		wantErr string
	}{
		{
			name: "register from object",
			kind: bridge.KindRegisterComponent,
			args: []any{map[string]any{"pluginId": "plugin-A", "componentId": "comp-1"}},
			want: bridge.ComponentEvent(bridge.KindRegisterComponent, "comp-1", "plugin-A"),
		},
		{
			name: "remove from json string",
			kind: bridge.KindRemoveComponent,
			args: []any{`{"pluginId":"plugin-A","componentId":"comp-1"}`},
			want: bridge.ComponentEvent(bridge.KindRemoveComponent, "comp-1", "plugin-A"),
		},
		{
			name: "unloaded",
			kind: bridge.KindPluginUnloaded,
			args: []any{map[string]any{"pluginId": "plugin-A", "success": true}},
			want: bridge.LifecycleEvent(bridge.KindPluginUnloaded, "plugin-A", true),
		},
		{
			name: "log",
			kind: bridge.KindLog,
			args: []any{map[string]any{"pluginId": "plugin-A", "level": "info", "message": "ready"}},
			want: bridge.MessageEvent(bridge.KindLog, "plugin-A", "info", "ready"),
		},
		{
			name:    "no payload",
			kind:    bridge.KindRegisterComponent,
			wantErr: "event 'registerComponent' carries no payload",
		},
		{
			name:    "malformed",
			kind:    bridge.KindPluginLoaded,
			args:    []any{"{not json"},
			wantErr: "event 'onPluginLoaded': malformed payload",
		},
		{
			name:    "missing ids",
			kind:    bridge.KindRegisterComponent,
			args:    []any{map[string]any{"pluginId": "plugin-A"}},
			wantErr: "component id: identifier cannot be empty",
		},
		{
			name:    "unknown kind",
			kind:    "onPing",
			args:    []any{map[string]any{}},
			wantErr: "unknown event kind 'onPing'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeEvent(tc.kind, tc.args)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeUIEvent(t *testing.T) {
	got := encodeUIEvent(bridge.UIEvent{PluginID: "plugin-A", EventID: "press", Data: map[string]any{"x": 3}})
	assert.Equal(t, map[string]any{
		"pluginId":  "plugin-A",
		"eventId":   "press",
		"eventData": map[string]any{"x": 3},
	}, got)

	bare := encodeUIEvent(bridge.UIEvent{PluginID: "plugin-A", EventID: "layout"})
	assert.NotContains(t, bare, "eventData")
}

func TestDial_RejectsRelativeURL(t *testing.T) {
	_, err := Dial(context.Background(), Config{URL: "/plugins"}, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be absolute")
}

func TestChannel_ForwardPublishesDecodedEvents(t *testing.T) {
	c := &Channel{Local: bridge.NewLocal(bridge.WithLogger(discardLogger())), logger: discardLogger()}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Local.Run(ctx) }()
	defer func() {
		require.NoError(t, c.Local.Close())
		cancel()
		<-errCh
	}()

	var got []bridge.Event
	c.Subscribe(bridge.KindRegisterComponent, func(_ context.Context, ev bridge.Event) error {
		got = append(got, ev)
		return nil
	})

	c.forward(bridge.KindRegisterComponent)(map[string]any{"pluginId": "plugin-A", "componentId": "comp-1"})
	c.forward(bridge.KindRegisterComponent)("not json")
	c.forward(bridge.KindRegisterComponent)(`{"pluginId":"plugin-B","componentId":"comp-2"}`)
	// Barrier: everything forwarded above has been dispatched.
	require.NoError(t, c.PublishSync(context.Background(), bridge.LifecycleEvent(bridge.KindPluginLoaded, "plugin-A", true)))

	assert.Equal(t, []bridge.Event{
		bridge.ComponentEvent(bridge.KindRegisterComponent, "comp-1", "plugin-A"),
		bridge.ComponentEvent(bridge.KindRegisterComponent, "comp-2", "plugin-B"),
	}, got)
}
