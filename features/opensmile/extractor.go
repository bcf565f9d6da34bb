package opensmile

import (
	"fmt"

	"github.com/go-audio/audio"
	"gonum.org/v1/gonum/mat"

	"github.com/quaverlab/corpusfeat/features"
	"github.com/quaverlab/corpusfeat/logging"
	"github.com/quaverlab/corpusfeat/smile"
)

// ExtractorName is the symbolic name the adapter registers under.
const ExtractorName = "opensmile-wrapper"

// Extractor wraps one configured openSMILE engine instance behind the
// framework extractor contract. The engine is built once in New and reused
// for every Extract call.
type Extractor struct {
	config Config
	engine *smile.Engine
	logger logging.Logger
}

var _ features.Extractor = (*Extractor)(nil)

// New builds the engine from the configuration and returns a ready
// extractor. A missing openSMILE installation fails fast with install
// instructions; every other engine failure (unknown feature set, bad custom
// config path, invalid options) surfaces here unmodified.
func New(cfg Config) (*Extractor, error) {
	if err := smile.Available(); err != nil {
		return nil, err
	}

	engine, err := smile.NewEngine(cfg.engineParams())
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		config: cfg,
		engine: engine,
		logger: logging.WithFields(logging.Fields{
			"component":   "opensmile_extractor",
			"feature_set": cfg.FeatureSet,
		}),
	}

	e.logger.Debug("Extractor ready", logging.Fields{
		"feature_level": cfg.FeatureLevel,
	})
	return e, nil
}

// Name returns the symbolic registry name.
func (e *Extractor) Name() string {
	return ExtractorName
}

// FrameShift returns the stride between output frames in seconds.
//
// TODO: derive the real frame shift by parsing the engine config file; the
// CLI does not expose it, so this remains a placeholder pinned to 0.
func (e *Extractor) FrameShift() float64 {
	return 0
}

// FeatureDim returns the number of feature columns for the given rate.
//
// TODO: same limitation as FrameShift; callers needing the true dimension
// should use len(FeatureNames()) until the config parsing lands.
func (e *Extractor) FeatureDim(sampleRate int) int {
	return 0
}

// FeatureNames forwards to the engine's own name enumeration.
func (e *Extractor) FeatureNames() ([]string, error) {
	return e.engine.FeatureNames()
}

// Extract forwards the buffer to the engine and returns its feature table.
// When the configuration fixes a sampling rate, passing any other rate is a
// caller contract violation and fails unconditionally; the signal is never
// coerced or resampled here. Engine failures propagate unmodified.
func (e *Extractor) Extract(samples *audio.FloatBuffer, sampleRate int) (*mat.Dense, error) {
	if e.config.SamplingRate != nil && sampleRate != *e.config.SamplingRate {
		return nil, fmt.Errorf("extract called with sample rate %d Hz but extractor is configured for %d Hz",
			sampleRate, *e.config.SamplingRate)
	}

	return e.engine.ProcessSignal(samples, sampleRate)
}

// Register adds the adapter to the registry under ExtractorName, bound to
// its Config type.
func Register(r *features.Registry) error {
	return r.Register(features.Entry{
		Name: ExtractorName,
		NewConfig: func() any {
			cfg := DefaultConfig()
			return &cfg
		},
		Build: func(m features.ConfigMapping) (features.Extractor, error) {
			cfg, err := ConfigFromMapping(m)
			if err != nil {
				return nil, err
			}
			return New(cfg)
		},
	})
}
