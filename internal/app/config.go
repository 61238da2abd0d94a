package app

import (
	"errors"

	"github.com/specialistvlad/pluginui/internal/config"
)

// Config holds the entrypoint-level settings for an App: where to find
// configuration files, and flag values that override them.
type Config struct {
	ConfigPaths []string
	Overrides   Overrides
}

// Overrides are optional values that take precedence over configuration
// files. A nil field leaves the file value alone.
type Overrides struct {
	LogLevel        *string
	LogFormat       *string
	HTTPPort        *int
	StrictOwnership *bool
	Transport       *string
	BridgeURL       *string
}

// NewConfig checks the entrypoint settings.
func NewConfig(cfg Config) (*Config, error) {
	for _, p := range cfg.ConfigPaths {
		if p == "" {
			return nil, errors.New("config paths must not contain empty entries")
		}
	}
	return &cfg, nil
}

// apply writes the overrides onto m.
func (o Overrides) apply(m *config.Model) {
	if o.LogLevel != nil {
		m.Log.Level = *o.LogLevel
	}
	if o.LogFormat != nil {
		m.Log.Format = *o.LogFormat
	}
	if o.HTTPPort != nil {
		m.HTTP.Port = *o.HTTPPort
	}
	if o.StrictOwnership != nil {
		m.Registry.StrictOwnership = *o.StrictOwnership
	}
	if o.Transport != nil {
		m.Bridge.Transport = *o.Transport
	}
	if o.BridgeURL != nil {
		m.Bridge.URL = *o.BridgeURL
	}
}
