package pluginapi

import "runtime"

// DeclarationSymbol is the exported variable name the host looks up in
// every module.
const DeclarationSymbol = "PluginDeclaration"

// ContractVersion identifies the revision of this package's contract. It is
// a constant so that the value a plugin carries is the one it was compiled
// against.
const ContractVersion = "0.3.0"

// HostBuildID identifies the toolchain the calling binary was built with.
func HostBuildID() string {
	return runtime.Version()
}

// Registrar receives the functions a module exposes during registration.
type Registrar interface {
	Register(name string, fn Function)
}

// Declaration is the handshake record a module exports under
// DeclarationSymbol.
type Declaration struct {
	HostBuildID     string
	ContractVersion string
	Register        func(Registrar)
}

// Declare builds a Declaration stamped with the identifiers this package
// was compiled with.
func Declare(register func(Registrar)) Declaration {
	return Declaration{
		HostBuildID:     HostBuildID(),
		ContractVersion: ContractVersion,
		Register:        register,
	}
}
