// Command arith is the arith module packaged as a dynamic plugin:
//
//	go build -buildmode=plugin -o arith.so ./plugins/arith
package main

import (
	"github.com/vk/dynplug/modules/arith"
	"github.com/vk/dynplug/pkg/pluginapi"
)

// PluginDeclaration is the handshake record the host looks up.
var PluginDeclaration = pluginapi.Declare(arith.Module{}.Register)

func main() {}
