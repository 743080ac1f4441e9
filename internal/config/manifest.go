package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the optional per-project cm.yaml override, parsed with
// gopkg.in/yaml.v3.
type Manifest struct {
	SearchPaths []string `yaml:"search_paths"`
	Target      string   `yaml:"target"`
	OptLevel    *int     `yaml:"opt_level"`
}

// LoadManifest reads and parses a cm.yaml manifest file. A missing file
// is not an error: the zero-value Manifest is returned.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Apply overlays manifest settings onto a Config that was built from
// flags/environment only. Manifest search paths are appended after the
// existing ones; the manifest's target and optimization level are used
// only while the Config still holds the defaults (native target, level
// 0), so an explicit non-default flag wins over the manifest.
func (c *Config) Apply(m *Manifest) {
	if m == nil {
		return
	}
	if len(m.SearchPaths) > 0 {
		c.SearchPaths = append(c.SearchPaths, m.SearchPaths...)
	}
	if m.Target != "" && c.Target == TargetNative {
		c.Target = Target(m.Target)
	}
	if m.OptLevel != nil && c.OptLevel == 0 {
		c.OptLevel = *m.OptLevel
	}
}
