// Package app is the composition root of the plugin host. It owns one host
// context: the logger, the component registry, the bridge channel to the
// plugin runtime, the metrics collector and the optional inspection server.
// It is decoupled from any specific entrypoint like a CLI.
//
// Each App has its own Registry; nothing is shared through package-level
// state, so several host contexts can run side by side and tear down
// independently.
package app
