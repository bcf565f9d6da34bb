package features

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConfigMapping is the flat key-value form of an extractor configuration.
// It is the persistence contract: a corpus manifest stores exactly this
// mapping, and rebuilding from it must yield a field-for-field identical
// configuration.
type ConfigMapping map[string]any

// MarshalConfig flattens a config struct into a mapping. Values pass through
// as-is; no deep copy beyond the flat field dump.
func MarshalConfig(cfg any) (ConfigMapping, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}

	var m ConfigMapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to flatten config: %w", err)
	}
	if m == nil {
		m = make(ConfigMapping)
	}
	return m, nil
}

// UnmarshalConfig reconstructs a config struct from a mapping. Decoding is
// strict: keys that do not correspond to a field of cfg fail the
// reconstruction rather than being dropped.
func UnmarshalConfig(m ConfigMapping, cfg any) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialize config mapping: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to reconstruct config from mapping: %w", err)
	}
	return nil
}
