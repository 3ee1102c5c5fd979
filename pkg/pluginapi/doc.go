// Package pluginapi is the contract shared by the dynplug host and every
// plugin it loads.
//
// A plugin is a Go main package built with -buildmode=plugin that exports a
// package-level variable named PluginDeclaration:
//
//	var PluginDeclaration = pluginapi.Declare(func(r pluginapi.Registrar) {
//		r.Register("add", arith.Add{})
//	})
//
// The host reads the declaration once, checks both version fields against
// its own, and then calls the register function exactly once with a fresh
// Registrar. Everything the plugin exposes must be handed over through that
// single call.
package pluginapi
