package vocal

import (
	"github.com/RyanBlaney/sonido-vox/algorithms/spectral"
	"github.com/RyanBlaney/sonido-vox/algorithms/stats"
	"github.com/RyanBlaney/sonido-vox/algorithms/temporal"
	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

// VADResult is the frame-level voicing decision for a waveform
type VADResult struct {
	FrameVoiced []bool  `json:"-"`
	VoicedRatio float64 `json:"voiced_ratio"`
	FrameSize   int     `json:"frame_size"` // samples
	HopSize     int     `json:"hop_size"`   // samples
}

// NumVoicedFrames counts frames marked voiced
func (r *VADResult) NumVoicedFrames() int {
	count := 0
	for _, v := range r.FrameVoiced {
		if v {
			count++
		}
	}
	return count
}

// VoicedRatioInRange returns the voiced fraction among frames whose
// start falls inside [startSample, endSample).
func (r *VADResult) VoicedRatioInRange(startSample, endSample int) float64 {
	if r.HopSize <= 0 {
		return 0.0
	}

	total := 0
	voiced := 0
	for i, v := range r.FrameVoiced {
		start := i * r.HopSize
		if start < startSample || start >= endSample {
			continue
		}
		total++
		if v {
			voiced++
		}
	}
	if total == 0 {
		return 0.0
	}
	return float64(voiced) / float64(total)
}

// VoiceActivityDetector marks voiced frames with an energy gate plus a
// zero-crossing ceiling. A frame is voiced when its RMS clears the
// clip-relative energy percentile and its ZCR stays below the fricative
// threshold.
type VoiceActivityDetector struct {
	cfg config.VADConfig
}

// NewVoiceActivityDetector creates a detector from config
func NewVoiceActivityDetector(cfg config.VADConfig) *VoiceActivityDetector {
	return &VoiceActivityDetector{cfg: cfg}
}

// Detect runs voice activity detection over a waveform
func (vad *VoiceActivityDetector) Detect(w *Waveform) *VADResult {
	frameSize := w.SampleRate * vad.cfg.FrameMs / 1000
	hopSize := w.SampleRate * vad.cfg.HopMs / 1000

	result := &VADResult{
		FrameSize: frameSize,
		HopSize:   hopSize,
	}
	if len(w.Samples) < frameSize {
		return result
	}

	energy := temporal.NewEnergyWithParams(w.SampleRate, frameSize, hopSize)
	zcr := spectral.NewZeroCrossingRateWithParams(w.SampleRate, frameSize, hopSize)

	energies := energy.ComputeFrames(w.Samples)
	zcrs := zcr.ComputeFrames(w.Samples)

	numFrames := min(len(energies), len(zcrs))
	if numFrames == 0 {
		return result
	}

	// The energy gate adapts to the clip so quiet recordings are not
	// rejected wholesale.
	threshold := stats.Percentile(energies[:numFrames], vad.cfg.EnergyPercentile)

	result.FrameVoiced = make([]bool, numFrames)
	voiced := 0
	for i := range numFrames {
		if energies[i] > threshold && zcrs[i] < vad.cfg.MaxZCR {
			result.FrameVoiced[i] = true
			voiced++
		}
	}
	result.VoicedRatio = float64(voiced) / float64(numFrames)

	return result
}
