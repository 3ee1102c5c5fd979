// Package loader opens dynamic modules, validates their handshake
// declaration and keeps a name-indexed table of the functions they expose.
//
// A Registry is an explicit object: construct one with New, pass it to
// whatever needs to load or call functions, and construct as many
// independent registries as needed (tests do). Loading is append-only.
// Modules are never unloaded and every Entry keeps a pointer to the module
// it came from, so a function stays callable for as long as anything can
// reach it.
package loader
