package config

import _ "embed"

//go:embed default.yaml
var defaultTuning []byte

//go:embed scene.yaml
var defaultScene []byte
