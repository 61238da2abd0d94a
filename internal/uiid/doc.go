// internal/uiid/doc.go

/*
Package uiid provides the opaque identifier types shared by the plugin UI
registry and the bridge channel.

A ComponentID names one UI surface a plugin can register. A PluginID names a
single loaded plugin instance; a reload of the same package is a new PluginID
unless the host deliberately reuses one.

Both are opaque: the only rule enforced here is that an identifier must not be
empty or consist solely of whitespace.
*/
package uiid
