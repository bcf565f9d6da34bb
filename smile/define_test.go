package smile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureSetNames(t *testing.T) {
	installFakeEngine(t)

	names, err := FeatureSetNames()
	require.NoError(t, err)

	assert.Len(t, names, len(featureSetOrder))
	assert.Equal(t, "ComParE_2016", names[0])
	assert.Contains(t, names, "eGeMAPSv02")
	assert.Contains(t, names, "emobase")
}

func TestFeatureSetNamesWithoutEngine(t *testing.T) {
	hideEngine(t)

	_, err := FeatureSetNames()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.Contains(t, err.Error(), "install openSMILE")
}

func TestFeatureSetIsPredefined(t *testing.T) {
	assert.True(t, ComParE2016.IsPredefined())
	assert.True(t, EGeMAPSv02.IsPredefined())
	assert.False(t, FeatureSet("/tmp/custom.conf").IsPredefined())
	assert.False(t, FeatureSet("").IsPredefined())
}

func TestFeatureLevelOutputFlag(t *testing.T) {
	assert.Equal(t, "-lldcsvoutput", LowLevelDescriptors.OutputFlag())
	assert.Equal(t, "-lldcsvoutput", LowLevelDeltas.OutputFlag())
	assert.Equal(t, "-csvoutput", Functionals.OutputFlag())

	// Levels only a custom config defines fall back to the generic flag.
	assert.Equal(t, "-csvoutput", FeatureLevel("my_level").OutputFlag())
}
