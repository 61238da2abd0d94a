package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load overlays the configuration found at paths onto base and returns
	// the result. Each path may be a file or a directory.
	Load(ctx context.Context, base *Model, paths ...string) (*Model, error)
}
