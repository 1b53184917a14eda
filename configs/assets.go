package configs

import _ "embed"

// ConfigFile the default config file
//
//go:embed config.yaml
var ConfigFile string
