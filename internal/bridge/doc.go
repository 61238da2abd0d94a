// Package bridge defines the contract between the host and an external plugin
// runtime (a native module or a WASM host), and provides Local, an in-process
// implementation of it.
//
// # Event Contract
//
// The runtime delivers lifecycle and registration events, in arrival order,
// one logical event at a time. Every Event carries a Kind and exactly one of
// three payload shapes:
//
//	registerComponent, removeComponent       {pluginId, componentId}
//	onPluginLoaded, onPluginInitialized,
//	onPluginUnloaded                         {pluginId, success}
//	onLog, onError                           {pluginId, level, message}
//
// Delivery is at-least-once. Consumers are expected to be idempotent.
//
// # Subscriptions
//
// Source.Subscribe returns a ListenerID; Unsubscribe with the same kind and id
// removes exactly that handler and nothing else, so a consumer can attach and
// detach without disturbing unrelated listeners.
//
// # Outbound
//
// Invoker.InvokeUIEvent forwards an application UI event (press, layout, ...)
// to the named plugin. It is fire-and-forget; delivery and acknowledgement
// belong to the transport.
package bridge
