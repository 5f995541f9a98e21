package config

import _ "embed"

// DefaultConfigYAML is the built-in configuration, overridden by external files and env.
//
//go:embed config.yaml
var DefaultConfigYAML []byte
