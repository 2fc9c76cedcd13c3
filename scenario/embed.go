package scenario

import "embed"

//go:embed scripts/*.tengo
var scriptsFS embed.FS

// LoadBuiltin returns one of the scripts shipped with the binary.
func LoadBuiltin(name string) ([]byte, error) {
	return scriptsFS.ReadFile("scripts/" + name + ".tengo")
}
