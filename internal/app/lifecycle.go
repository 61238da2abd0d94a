package app

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/pluginui/internal/bridge"
)

// attachLifecycleLogger reports plugin lifecycle, log and error events that
// the registry does not consume. It returns the detach function.
func attachLifecycleLogger(src bridge.Source, logger *slog.Logger) func() {
	handle := func(ctx context.Context, ev bridge.Event) error {
		switch ev.Kind {
		case bridge.KindPluginLoaded, bridge.KindPluginInitialized:
			if ev.Lifecycle.Success {
				logger.Info("Plugin lifecycle event.", "event", ev.Kind, "plugin", ev.Lifecycle.PluginID)
			} else {
				logger.Error("Plugin lifecycle step failed.", "event", ev.Kind, "plugin", ev.Lifecycle.PluginID)
			}
		case bridge.KindLog:
			logger.Log(ctx, pluginLevel(ev.Message.Level), ev.Message.Message, "plugin", ev.Message.PluginID)
		case bridge.KindError:
			logger.Error("Plugin reported an error.", "plugin", ev.Message.PluginID, "error", ev.Message.Message)
		}
		return nil
	}

	kinds := []bridge.Kind{bridge.KindPluginLoaded, bridge.KindPluginInitialized, bridge.KindLog, bridge.KindError}
	ids := make([]bridge.ListenerID, len(kinds))
	for i, kind := range kinds {
		ids[i] = src.Subscribe(kind, handle)
	}
	return func() {
		for i, kind := range kinds {
			src.Unsubscribe(kind, ids[i])
		}
	}
}

// pluginLevel maps a plugin-supplied level name onto slog; unknown names are
// logged at info.
func pluginLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
