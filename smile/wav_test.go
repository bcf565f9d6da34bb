package smile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stereoBuffer(left, right []float64, sampleRate int) *audio.FloatBuffer {
	data := make([]float64, 0, len(left)*2)
	for i := range left {
		data = append(data, left[i], right[i])
	}
	return &audio.FloatBuffer{
		Data:   data,
		Format: &audio.Format{NumChannels: 2, SampleRate: sampleRate},
	}
}

func TestSelectChannelsSingle(t *testing.T) {
	buf := stereoBuffer([]float64{0.1, 0.2, 0.3}, []float64{-0.1, -0.2, -0.3}, 16000)

	out, err := selectChannels(buf, []int{1}, false)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Format.NumChannels)
	assert.Equal(t, []float64{-0.1, -0.2, -0.3}, out.Data)
}

func TestSelectChannelsPreservesOrder(t *testing.T) {
	buf := stereoBuffer([]float64{0.1, 0.2}, []float64{-0.1, -0.2}, 16000)

	// Swapped selection: right first, then left.
	out, err := selectChannels(buf, []int{1, 0}, false)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Format.NumChannels)
	assert.Equal(t, []float64{-0.1, 0.1, -0.2, 0.2}, out.Data)
}

func TestSelectChannelsMixdown(t *testing.T) {
	buf := stereoBuffer([]float64{0.2, 0.4}, []float64{0.4, 0.8}, 16000)

	out, err := selectChannels(buf, []int{0, 1}, true)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Format.NumChannels)
	require.Len(t, out.Data, 2)
	assert.InDelta(t, 0.3, out.Data[0], 1e-12)
	assert.InDelta(t, 0.6, out.Data[1], 1e-12)
}

func TestSelectChannelsOutOfRange(t *testing.T) {
	buf := stereoBuffer([]float64{0.1}, []float64{0.2}, 16000)

	_, err := selectChannels(buf, []int{2}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestWriteWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signal.wav")

	buf := &audio.FloatBuffer{
		Data:   []float64{0, 0.5, -0.5, 1.0, -1.0, 0.25},
		Format: &audio.Format{NumChannels: 1, SampleRate: 8000},
	}
	require.NoError(t, writeWAV(path, buf, 8000))

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	dec := wav.NewDecoder(f)
	decoded, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, 8000, decoded.Format.SampleRate)
	assert.Equal(t, 1, decoded.Format.NumChannels)
	require.Len(t, decoded.Data, len(buf.Data))

	// Spot-check quantization: full-scale values survive, zero stays zero.
	assert.Equal(t, 0, decoded.Data[0])
	assert.Equal(t, 32767, decoded.Data[3])
	assert.Equal(t, -32767, decoded.Data[4])
}

func TestWriteWAVClipsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signal.wav")

	buf := &audio.FloatBuffer{
		Data:   []float64{2.0, -3.0},
		Format: &audio.Format{NumChannels: 1, SampleRate: 8000},
	}
	require.NoError(t, writeWAV(path, buf, 8000))

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	decoded, err := wav.NewDecoder(f).FullPCMBuffer()
	require.NoError(t, err)
	require.Len(t, decoded.Data, 2)
	assert.Equal(t, 32767, decoded.Data[0])
	assert.Equal(t, -32767, decoded.Data[1])
}
