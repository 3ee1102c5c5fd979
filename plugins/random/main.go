// Command random is the random module packaged as a dynamic plugin:
//
//	go build -buildmode=plugin -o random.so ./plugins/random
package main

import (
	"github.com/vk/dynplug/modules/random"
	"github.com/vk/dynplug/pkg/pluginapi"
)

// PluginDeclaration is the handshake record the host looks up.
var PluginDeclaration = pluginapi.Declare(random.Module{}.Register)

func main() {}
