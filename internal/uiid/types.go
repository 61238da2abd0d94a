// internal/uiid/types.go
package uiid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyID is returned when a component or plugin identifier is blank.
var ErrEmptyID = errors.New("identifier cannot be empty")

// ComponentID identifies one plugin-registrable UI surface.
type ComponentID string

// PluginID identifies a loaded plugin instance.
type PluginID string

// String implements fmt.Stringer.
func (c ComponentID) String() string { return string(c) }

// String implements fmt.Stringer.
func (p PluginID) String() string { return string(p) }

// Validate reports whether the component id is usable as a map key.
func (c ComponentID) Validate() error {
	if strings.TrimSpace(string(c)) == "" {
		return fmt.Errorf("component id: %w", ErrEmptyID)
	}
	return nil
}

// Validate reports whether the plugin id is usable as a map key.
func (p PluginID) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return fmt.Errorf("plugin id: %w", ErrEmptyID)
	}
	return nil
}

// ValidatePair validates a component id together with its owning plugin id.
func ValidatePair(c ComponentID, p PluginID) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return p.Validate()
}
