package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Bridge transports.
const (
	TransportLocal    = "local"
	TransportSocketIO = "socketio"
)

// Model is the complete host configuration.
type Model struct {
	Bridge   Bridge
	Registry Registry
	HTTP     HTTP
	Log      Log
}

// Bridge configures the channel to the plugin runtime.
type Bridge struct {
	Transport          string
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
	QueueSize          int
}

// Registry configures the component registry.
type Registry struct {
	StrictOwnership bool
}

// HTTP configures the inspection server. Port 0 disables it.
type HTTP struct {
	Port int
}

// Log configures the application logger.
type Log struct {
	Level  string
	Format string
}

// Default returns the configuration used when nothing overrides it.
func Default() *Model {
	return &Model{
		Bridge: Bridge{
			Transport: TransportLocal,
			Namespace: "/",
			Timeout:   15 * time.Second,
			QueueSize: 64,
		},
		Log: Log{Level: "info", Format: "json"},
	}
}

// Validate checks the model for values the host cannot start with.
func (m *Model) Validate() error {
	var errs []error

	switch m.Bridge.Transport {
	case TransportLocal:
	case TransportSocketIO:
		if m.Bridge.URL == "" {
			errs = append(errs, errors.New("bridge: url is required for the socketio transport"))
		} else if u, err := url.Parse(m.Bridge.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("bridge: url '%s' must be an absolute URL", m.Bridge.URL))
		}
	default:
		errs = append(errs, fmt.Errorf("bridge: unknown transport '%s' (want '%s' or '%s')", m.Bridge.Transport, TransportLocal, TransportSocketIO))
	}
	if m.Bridge.Timeout <= 0 {
		errs = append(errs, errors.New("bridge: timeout must be positive"))
	}
	if m.Bridge.QueueSize <= 0 {
		errs = append(errs, errors.New("bridge: queue_size must be positive"))
	}

	if m.HTTP.Port < 0 || m.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http: port %d out of range", m.HTTP.Port))
	}

	switch strings.ToLower(m.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log: invalid level '%s'", m.Log.Level))
	}
	switch strings.ToLower(m.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log: invalid format '%s'", m.Log.Format))
	}

	return errors.Join(errs...)
}
