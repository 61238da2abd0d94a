// Package registry tracks which loaded plugin owns which UI component id.
//
// The Registry keeps two maps in lockstep: component → owning plugin, and
// plugin → the ordered set of components it owns. Every mutation updates both
// under a single write lock, so a reader never observes a component present
// in one map and missing from the other.
//
// Mutations normally arrive from a bridge.Source through Attach, which
// subscribes to the register, remove and unloaded events and nothing else.
// Queries (ComponentExists, ComponentOwner, RegisteredComponentsForPlugin)
// are safe to call from any goroutine, typically a render pass.
//
// Re-registering a component id transfers ownership to the new plugin
// (last write wins) and logs a warning when the previous owner was a
// different plugin. WithStrictOwnership turns that case into an
// ErrOwnershipConflict instead.
//
// The Registry also fronts the static default component table. It never
// falls back to it on its own; that choice belongs to the caller.
package registry
