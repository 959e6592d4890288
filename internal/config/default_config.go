package config

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML contains the embedded default config template, written
// out verbatim by `bundler init` when the user declines the interactive
// wizard.
//
//go:embed default_config.yaml
var DefaultConfigYAML string

// WriteTemplate writes the embedded default config template to path.
func WriteTemplate(path string) error {
	return os.WriteFile(path, []byte(DefaultConfigYAML), 0o644)
}

// SaveConfig marshals cfg to path as YAML, used by the `init` wizard to
// persist answers gathered interactively rather than the static template.
func SaveConfig(cfg *Config, path string) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
