// Package opensmile adapts the openSMILE engine to the framework's feature
// extractor contract. The package is deliberately thin: it builds an engine
// from a configuration record, forwards signal buffers, and returns whatever
// feature table the engine produces. All signal processing happens inside
// the engine.
package opensmile

import (
	"github.com/quaverlab/corpusfeat/features"
	"github.com/quaverlab/corpusfeat/smile"
)

// Config describes one openSMILE invocation setup. Predefined feature sets
// are selected by name; a custom engine config file is selected by passing
// its path as FeatureSet together with the level name it defines. The record
// is immutable by convention: build it, hand it to New, leave it alone.
type Config struct {
	// FeatureSet is a predefined set name or a path to a custom config file.
	FeatureSet string `yaml:"feature_set"`

	// FeatureLevel is the extraction granularity: "lld", "lld_de" or "func",
	// or the level name a custom config defines.
	FeatureLevel string `yaml:"feature_level"`

	// Options holds engine-specific script parameter overrides.
	Options map[string]string `yaml:"options,omitempty"`

	// LogLevel is the engine log verbosity, 0-5.
	LogLevel int `yaml:"loglevel"`

	// Logfile receives engine log output when non-empty.
	Logfile string `yaml:"logfile,omitempty"`

	// SamplingRate is the expected input rate. When nil the engine uses the
	// actual rate of each signal.
	SamplingRate *int `yaml:"sampling_rate"`

	// Channels selects input channels, in order.
	Channels []int `yaml:"channels,omitempty"`

	// Mixdown applies a mono mix-down on the selection.
	Mixdown bool `yaml:"mixdown"`

	// Resample asks the engine to enforce SamplingRate by resampling.
	Resample bool `yaml:"resample"`

	// NumWorkers is the engine parallelism degree. When nil the engine uses
	// the number of processors.
	NumWorkers *int `yaml:"num_workers"`

	// Verbose enables additional debug output.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the default configuration: ComParE 2016 low-level
// descriptors over 16 kHz single-channel input, sequential processing.
func DefaultConfig() Config {
	rate := 16000
	workers := 1
	return Config{
		FeatureSet:   string(smile.ComParE2016),
		FeatureLevel: string(smile.LowLevelDescriptors),
		LogLevel:     2,
		SamplingRate: &rate,
		Channels:     []int{0},
		NumWorkers:   &workers,
	}
}

// ToMapping serializes the record to its flat key-value form, the shape a
// corpus manifest persists.
func (c Config) ToMapping() (features.ConfigMapping, error) {
	return features.MarshalConfig(c)
}

// ConfigFromMapping reconstructs a record from its flat form. Keys absent
// from the mapping keep their zero values; unknown or misnamed keys fail the
// reconstruction.
func ConfigFromMapping(m features.ConfigMapping) (Config, error) {
	var cfg Config
	if err := features.UnmarshalConfig(m, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FeatureSetNames returns the ordered names of the predefined feature sets.
// It fails with install instructions when openSMILE is not installed.
func FeatureSetNames() ([]string, error) {
	return smile.FeatureSetNames()
}

// engineParams expands the record into the full engine parameter set. Every
// field is forwarded; nothing is validated here beyond what the engine
// checks itself.
func (c Config) engineParams() smile.Params {
	return smile.Params{
		FeatureSet:   smile.FeatureSet(c.FeatureSet),
		FeatureLevel: smile.FeatureLevel(c.FeatureLevel),
		Options:      c.Options,
		LogLevel:     c.LogLevel,
		Logfile:      c.Logfile,
		SamplingRate: c.SamplingRate,
		Channels:     c.Channels,
		Mixdown:      c.Mixdown,
		Resample:     c.Resample,
		NumWorkers:   c.NumWorkers,
		Verbose:      c.Verbose,
	}
}
