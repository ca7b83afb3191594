package transcode

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestWAV writes a 16-bit mono sine tone and returns its path
func writeTestWAV(t *testing.T, sampleRate int, seconds float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	n := int(seconds * float64(sampleRate))
	data := make([]int, n)
	for i := range n {
		v := 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
		data[i] = int(v * 32767)
	}

	encoder := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}
	require.NoError(t, encoder.Write(buf))
	require.NoError(t, encoder.Close())

	return path
}

func TestDecodeWAV(t *testing.T) {
	path := writeTestWAV(t, 16000, 0.5)

	d := NewDecoder(nil)
	data, err := d.DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 16000, data.SampleRate)
	assert.Equal(t, 1, data.Channels)
	assert.Equal(t, "wav", data.Format)
	assert.Len(t, data.PCM, 8000)
	assert.InDelta(t, 0.5, data.Duration.Seconds(), 0.01)

	// Samples are normalized to [-1, 1] with the expected peak
	peak := 0.0
	for _, s := range data.PCM {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	assert.InDelta(t, 0.5, peak, 0.01)
}

func TestDecodeWAVMaxDuration(t *testing.T) {
	path := writeTestWAV(t, 16000, 1.0)

	cfg := DefaultDecoderConfig()
	cfg.MaxDuration = 250 * time.Millisecond

	d := NewDecoder(cfg)
	data, err := d.DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Len(t, data.PCM, 4000)
	assert.Equal(t, 250*time.Millisecond, data.Duration)
}

func TestDecodeMissingFile(t *testing.T) {
	d := NewDecoder(nil)
	_, err := d.DecodeFile(context.Background(), "/nonexistent/file.wav")
	assert.Error(t, err)
}

func TestDecodeInvalidWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file"), 0o644))

	d := NewDecoder(nil)
	_, err := d.DecodeFile(context.Background(), path)
	assert.Error(t, err)
}

func TestBytesToFloat64(t *testing.T) {
	raw := make([]byte, 16)
	samples := bytesToFloat64(raw)
	require.Len(t, samples, 2)
	assert.Equal(t, 0.0, samples[0])

	// Trailing partial sample is dropped
	assert.Len(t, bytesToFloat64(make([]byte, 12)), 1)
}

func TestSamplesToDuration(t *testing.T) {
	assert.Equal(t, time.Second, samplesToDuration(16000, 16000))
	assert.Equal(t, time.Duration(0), samplesToDuration(100, 0))
}
