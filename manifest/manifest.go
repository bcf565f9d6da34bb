// Package manifest persists extractor bindings for a corpus. A manifest
// stores the extractor's symbolic name together with its flat config
// mapping, which is enough to reconstruct an identical extractor later.
package manifest

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quaverlab/corpusfeat/features"
	"github.com/quaverlab/corpusfeat/logging"
)

// ExtractorManifest records how a corpus' features were produced.
type ExtractorManifest struct {
	// Name is the registry name of the extractor.
	Name string `yaml:"extractor"`

	// Config is the extractor's flat configuration mapping.
	Config features.ConfigMapping `yaml:"config"`
}

// FromExtractorConfig builds a manifest from a name and a config struct.
func FromExtractorConfig(name string, cfg any) (*ExtractorManifest, error) {
	m, err := features.MarshalConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &ExtractorManifest{Name: name, Config: m}, nil
}

// Save writes the manifest as YAML.
func (m *ExtractorManifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	logging.Debug("Saved extractor manifest", logging.Fields{
		"component": "manifest",
		"path":      path,
		"extractor": m.Name,
	})
	return nil
}

// Load reads a manifest back from YAML. Unknown document keys are errors so
// a manifest written by a newer tool fails loudly instead of silently
// losing settings.
func Load(path string) (*ExtractorManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m ExtractorManifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("manifest %s names no extractor", path)
	}
	return &m, nil
}

// Build resolves the named extractor in the registry and reconstructs it
// from the stored config mapping.
func (m *ExtractorManifest) Build(r *features.Registry) (features.Extractor, error) {
	if _, ok := r.Resolve(m.Name); !ok {
		return nil, fmt.Errorf("manifest names unknown extractor %q (registered: %v)", m.Name, r.Names())
	}
	return r.Build(m.Name, m.Config)
}
