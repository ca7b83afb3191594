package transcode

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-vox/logging"
)

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // interleaved samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
	Format     string        `json:"format"` // source container, e.g. "wav", "m4a"
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	FFmpegPath string        `json:"ffmpeg_path"` // path to ffmpeg binary
	Timeout    time.Duration `json:"timeout"`     // timeout for ffmpeg decoding

	// Sample rate for the ffmpeg fallback path. WAV files keep their
	// native rate; resampling to the analysis rate happens downstream.
	FallbackSampleRate int `json:"fallback_sample_rate"`

	// MaxDuration truncates decoded audio, 0 means no limit
	MaxDuration time.Duration `json:"max_duration"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		FFmpegPath:         "ffmpeg", // assume in PATH
		Timeout:            30 * time.Second,
		FallbackSampleRate: 48000,
		MaxDuration:        0,
	}
}

// Decoder decodes audio files to PCM. WAV files are decoded natively;
// everything else goes through an ffmpeg subprocess.
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a decoder with the given config, falling back to
// defaults when nil.
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// DecodeFile decodes an audio file to interleaved float64 PCM
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*AudioData, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	logger := logging.WithFields(logging.Fields{
		"component": "decoder",
		"file":      filename,
		"format":    ext,
	})

	var (
		data *AudioData
		err  error
	)
	if ext == "wav" {
		data, err = d.decodeWAV(filename)
	} else {
		data, err = d.decodeWithFFmpeg(ctx, filename)
	}
	if err != nil {
		return nil, err
	}

	if d.config.MaxDuration > 0 && data.Duration > d.config.MaxDuration {
		maxSamples := int(d.config.MaxDuration.Seconds()*float64(data.SampleRate)) * data.Channels
		if maxSamples < len(data.PCM) {
			data.PCM = data.PCM[:maxSamples]
			data.Duration = d.config.MaxDuration
		}
	}

	data.Format = ext
	logger.Debug("decoded audio file", logging.Fields{
		"sample_rate": data.SampleRate,
		"channels":    data.Channels,
		"duration":    data.Duration.Seconds(),
	})

	return data, nil
}

// decodeWAV decodes a WAV file with go-audio
func (d *Decoder) decodeWAV(filename string) (*AudioData, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid WAV file", filename)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading PCM from %s: %w", filename, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("%s contains no samples", filename)
	}

	pcm := intBufferToFloat64(buf, int(decoder.BitDepth))

	sampleRate := buf.Format.SampleRate
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   samplesToDuration(len(pcm)/channels, sampleRate),
	}, nil
}

// intBufferToFloat64 scales integer PCM to [-1, 1] by the source bit
// depth.
func intBufferToFloat64(buf *audio.IntBuffer, bitDepth int) []float64 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	pcm := make([]float64, len(buf.Data))
	for i, sample := range buf.Data {
		pcm[i] = float64(sample) / scale
	}
	return pcm
}

// decodeWithFFmpeg shells out to ffmpeg, reading mono f64le PCM from a
// pipe. Covers m4a, mp3, ogg, amr and whatever else the binary handles.
func (d *Decoder) decodeWithFFmpeg(ctx context.Context, filename string) (*AudioData, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	sampleRate := d.config.FallbackSampleRate
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", filename,
		"-vn",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-f", "f64le",
		"-acodec", "pcm_f64le",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("ffmpeg failed for %s: %s", filename, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("ffmpeg failed for %s: %w", filename, err)
	}

	pcm := bytesToFloat64(output)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no samples for %s", filename)
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   1,
		Duration:   samplesToDuration(len(pcm), sampleRate),
	}, nil
}

// bytesToFloat64 reinterprets little-endian f64 bytes as samples
func bytesToFloat64(data []byte) []float64 {
	numSamples := len(data) / 8
	samples := make([]float64, numSamples)
	for i := range numSamples {
		bits := binary.LittleEndian.Uint64(data[i*8:])
		samples[i] = math.Float64frombits(bits)
	}
	return samples
}

func samplesToDuration(samples, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}
