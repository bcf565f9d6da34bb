package features

import (
	"github.com/go-audio/audio"
	"gonum.org/v1/gonum/mat"
)

// Extractor is the contract every feature extractor in the framework
// implements. An extractor is built once from its configuration and then
// called repeatedly with raw audio buffers; it owns whatever engine state it
// needs for the duration of its lifetime.
type Extractor interface {
	// Name returns the symbolic name the extractor is registered under.
	Name() string

	// FrameShift returns the temporal stride between successive output
	// frames, in seconds.
	FrameShift() float64

	// FeatureDim returns the number of feature columns produced for signals
	// at the given sample rate.
	FeatureDim(sampleRate int) int

	// FeatureNames returns the ordered names of the feature columns.
	FeatureNames() ([]string, error)

	// Extract computes features for the given buffer. The returned matrix has
	// one row per output frame (or a single summary row for aggregated
	// feature levels) and one column per feature dimension.
	Extract(samples *audio.FloatBuffer, sampleRate int) (*mat.Dense, error)
}
