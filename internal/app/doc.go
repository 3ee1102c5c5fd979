// Package app contains the host application logic. It wires the logger,
// the optional host config and a loader.Registry together and performs one
// load-then-call run, decoupled from the CLI entrypoint.
package app
