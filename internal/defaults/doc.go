// Package defaults holds the static table of fallback UI elements that the
// rendering surface can use when no plugin has claimed a component id.
//
// The table is built once at startup by Builtin (or NewTable in tests) and is
// read-only from then on: there are no exported mutators and every lookup
// hands back values, never references into the table. Props are carried as
// cty object values so that baseline and override props can be merged without
// the table knowing anything about a particular UI framework.
//
// Asking for an id that is not in the table is a programmer error. It is
// reported as ErrUnknownDefaultID and never silently recovered.
package defaults
