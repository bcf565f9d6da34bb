package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/quaverlab/corpusfeat/features"
)

type fakeExtractor struct {
	window int
}

func (f *fakeExtractor) Name() string                  { return "fake" }
func (f *fakeExtractor) FrameShift() float64           { return 0.02 }
func (f *fakeExtractor) FeatureDim(sampleRate int) int { return 1 }
func (f *fakeExtractor) FeatureNames() ([]string, error) {
	return []string{"energy"}, nil
}
func (f *fakeExtractor) Extract(samples *audio.FloatBuffer, sampleRate int) (*mat.Dense, error) {
	return mat.NewDense(1, 1, []float64{0}), nil
}

type fakeConfig struct {
	Window int  `yaml:"window"`
	Center bool `yaml:"center"`
}

func fakeRegistry(t *testing.T) *features.Registry {
	t.Helper()

	r := features.NewRegistry()
	require.NoError(t, r.Register(features.Entry{
		Name:      "fake",
		NewConfig: func() any { return &fakeConfig{} },
		Build: func(m features.ConfigMapping) (features.Extractor, error) {
			var cfg fakeConfig
			if err := features.UnmarshalConfig(m, &cfg); err != nil {
				return nil, err
			}
			return &fakeExtractor{window: cfg.Window}, nil
		},
	}))
	return r
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extractor.yaml")

	original, err := FromExtractorConfig("fake", fakeConfig{Window: 400, Center: true})
	require.NoError(t, err)
	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.Name, loaded.Name)
	assert.Equal(t, 400, loaded.Config["window"])
	assert.Equal(t, true, loaded.Config["center"])
}

func TestManifestBuild(t *testing.T) {
	r := fakeRegistry(t)

	m, err := FromExtractorConfig("fake", fakeConfig{Window: 512})
	require.NoError(t, err)

	ex, err := m.Build(r)
	require.NoError(t, err)
	assert.Equal(t, "fake", ex.Name())
	assert.Equal(t, 512, ex.(*fakeExtractor).window)
}

func TestManifestBuildUnknownExtractor(t *testing.T) {
	r := fakeRegistry(t)

	m := &ExtractorManifest{Name: "missing", Config: features.ConfigMapping{}}
	_, err := m.Build(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extractor")
}

func TestManifestBuildRejectsForeignKeys(t *testing.T) {
	r := fakeRegistry(t)

	m := &ExtractorManifest{
		Name:   "fake",
		Config: features.ConfigMapping{"window": 1, "hop": 2},
	}
	_, err := m.Build(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hop")
}

func TestLoadRejectsUnknownDocumentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extractor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extractor: fake\nconfig: {}\nextra: 1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extra")
}

func TestLoadRequiresExtractorName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extractor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("config: {}\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "names no extractor")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
