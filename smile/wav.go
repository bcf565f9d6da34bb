package smile

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"
)

// selectChannels applies the configured channel selection, and optionally a
// mono mixdown, to an interleaved buffer. The selection order is preserved;
// mixdown averages the selected channels with equal weight.
func selectChannels(buf *audio.FloatBuffer, channels []int, mixdown bool) (*audio.FloatBuffer, error) {
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("signal buffer has no channel layout")
	}

	nchan := buf.Format.NumChannels
	for _, ch := range channels {
		if ch < 0 || ch >= nchan {
			return nil, fmt.Errorf("channel %d out of range for %d-channel signal", ch, nchan)
		}
	}
	if len(buf.Data)%nchan != 0 {
		return nil, fmt.Errorf("interleaved buffer length %d is not divisible by channel count %d", len(buf.Data), nchan)
	}

	frames := len(buf.Data) / nchan

	// Deinterleave only the selected channels.
	picked := make([][]float64, len(channels))
	for i, ch := range channels {
		picked[i] = make([]float64, frames)
		for f := range frames {
			picked[i][f] = buf.Data[f*nchan+ch]
		}
	}

	if mixdown {
		mixed := make([]float64, frames)
		for _, ch := range picked {
			floats.Add(mixed, ch)
		}
		floats.Scale(1/float64(len(picked)), mixed)

		return &audio.FloatBuffer{
			Data:   mixed,
			Format: &audio.Format{NumChannels: 1, SampleRate: buf.Format.SampleRate},
		}, nil
	}

	// Re-interleave the selection.
	out := make([]float64, frames*len(picked))
	for f := range frames {
		for i := range picked {
			out[f*len(picked)+i] = picked[i][f]
		}
	}

	return &audio.FloatBuffer{
		Data:   out,
		Format: &audio.Format{NumChannels: len(picked), SampleRate: buf.Format.SampleRate},
	}, nil
}

// writeWAV writes the buffer to a 16-bit PCM WAV file at the given rate.
// Samples are expected in [-1, 1]; values outside are clipped.
func writeWAV(path string, buf *audio.FloatBuffer, sampleRate int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create signal file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	nchan := buf.Format.NumChannels
	enc := wav.NewEncoder(f, sampleRate, 16, nchan, 1)

	intBuf := &audio.IntBuffer{
		Data:           make([]int, len(buf.Data)),
		Format:         &audio.Format{NumChannels: nchan, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	for i, s := range buf.Data {
		s = math.Max(-1, math.Min(1, s))
		intBuf.Data[i] = int(math.Round(s * math.MaxInt16))
	}

	if err := enc.Write(intBuf); err != nil {
		return fmt.Errorf("failed to write signal file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize signal file: %w", err)
	}
	return nil
}
