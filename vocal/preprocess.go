package vocal

import (
	"fmt"
	"math"
	"time"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/RyanBlaney/sonido-vox/algorithms/filters"
	"github.com/RyanBlaney/sonido-vox/algorithms/temporal"
	"github.com/RyanBlaney/sonido-vox/logging"
	"github.com/RyanBlaney/sonido-vox/transcode"
	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

// Preprocessor conditions decoded audio for analysis: downmix to mono,
// resample to the analysis rate, band-limit to the voice band with a
// zero-phase Butterworth cascade, then normalize RMS. The input level
// is measured before normalization and recorded on the Waveform.
type Preprocessor struct {
	cfg    config.PreprocessConfig
	energy *temporal.Energy
}

// NewPreprocessor creates a preprocessor from config
func NewPreprocessor(cfg config.PreprocessConfig) *Preprocessor {
	return &Preprocessor{
		cfg:    cfg,
		energy: temporal.NewEnergy(cfg.TargetSampleRate),
	}
}

// Process runs the conditioning chain on decoded audio
func (p *Preprocessor) Process(data *transcode.AudioData) (*Waveform, error) {
	if data == nil || len(data.PCM) == 0 {
		return nil, fmt.Errorf("%w: no samples to preprocess", ErrInvalidAudio)
	}

	mono := downmix(data.PCM, data.Channels)

	samples, err := p.resample(mono, data.SampleRate)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: resampling produced no samples", ErrInvalidAudio)
	}

	bandLimit, err := filters.NewButterworthBandLimit(
		p.cfg.TargetSampleRate, p.cfg.LowCutoffHz, p.cfg.HighCutoffHz)
	if err != nil {
		return nil, fmt.Errorf("building band limit filter: %w", err)
	}
	samples = bandLimit.ProcessZeroPhase(samples)

	inputLoudness := p.energy.RMSDb(samples)
	inputPeak := p.energy.Peak(samples)

	if inputLoudness < p.cfg.SilenceFloorDb {
		return nil, fmt.Errorf("%w: input level %.1f dBFS below noise floor %.1f dBFS",
			ErrInvalidAudio, inputLoudness, p.cfg.SilenceFloorDb)
	}

	samples = p.normalize(samples)

	logging.Debug("preprocessed audio", logging.Fields{
		"component":         "preprocessor",
		"samples":           len(samples),
		"input_loudness_db": inputLoudness,
		"input_peak":        inputPeak,
	})

	return &Waveform{
		Samples:         samples,
		SampleRate:      p.cfg.TargetSampleRate,
		Duration:        time.Duration(float64(len(samples)) / float64(p.cfg.TargetSampleRate) * float64(time.Second)),
		InputLoudnessDb: inputLoudness,
		InputPeak:       inputPeak,
		SourceFormat:    data.Format,
	}, nil
}

// resample converts to the analysis rate, passing through when the
// rates already match.
func (p *Preprocessor) resample(samples []float64, inputRate int) ([]float64, error) {
	if inputRate == p.cfg.TargetSampleRate {
		return samples, nil
	}

	resampler, err := resampling.New(&resampling.Config{
		InputRate:  float64(inputRate),
		OutputRate: float64(p.cfg.TargetSampleRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("creating resampler %d -> %d Hz: %w",
			inputRate, p.cfg.TargetSampleRate, err)
	}

	output, err := resampler.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("resampling %d -> %d Hz: %w",
			inputRate, p.cfg.TargetSampleRate, err)
	}
	return output, nil
}

// normalize scales the signal to the target RMS, leaving silence alone
func (p *Preprocessor) normalize(samples []float64) []float64 {
	rms := p.energy.RMS(samples)
	if rms < 1e-8 {
		return samples
	}

	gain := p.cfg.TargetRMS / rms
	normalized := make([]float64, len(samples))
	for i, s := range samples {
		normalized[i] = math.Max(-1.0, math.Min(1.0, s*gain))
	}
	return normalized
}

// downmix averages interleaved channels into mono
func downmix(pcm []float64, channels int) []float64 {
	if channels <= 1 {
		return pcm
	}

	numFrames := len(pcm) / channels
	mono := make([]float64, numFrames)
	for i := range numFrames {
		sum := 0.0
		for c := range channels {
			sum += pcm[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
