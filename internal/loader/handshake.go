package loader

import (
	"errors"
	"fmt"

	"github.com/vk/dynplug/pkg/pluginapi"
)

// identity is the pair of version strings a declaration must match.
type identity struct {
	buildID         string
	contractVersion string
}

func hostIdentity() identity {
	return identity{
		buildID:         pluginapi.HostBuildID(),
		contractVersion: pluginapi.ContractVersion,
	}
}

// decodeDeclaration turns the raw declaration symbol into a value copy.
//
// This is the single point where the host trusts memory that belongs to a
// module. Everything after it works on the copy, and nothing holds on to
// the symbol itself.
func decodeDeclaration(sym any) (pluginapi.Declaration, error) {
	var decl pluginapi.Declaration
	switch v := sym.(type) {
	case *pluginapi.Declaration:
		if v == nil {
			return decl, errors.New("declaration symbol is a nil pointer")
		}
		decl = *v
	case pluginapi.Declaration:
		decl = v
	default:
		return decl, fmt.Errorf("declaration symbol has type %T, want %T", sym, &decl)
	}
	if decl.Register == nil {
		return decl, errors.New("declaration has no register function")
	}
	return decl, nil
}

// verify compares both version fields byte for byte. It returns nil or a
// *LoadError of KindVersionMismatch.
func (id identity) verify(path string, decl pluginapi.Declaration) error {
	if decl.HostBuildID != id.buildID {
		return &LoadError{
			Path:     path,
			Kind:     KindVersionMismatch,
			Field:    "host build id",
			Expected: id.buildID,
			Found:    decl.HostBuildID,
		}
	}
	if decl.ContractVersion != id.contractVersion {
		return &LoadError{
			Path:     path,
			Kind:     KindVersionMismatch,
			Field:    "contract version",
			Expected: id.contractVersion,
			Found:    decl.ContractVersion,
		}
	}
	return nil
}
