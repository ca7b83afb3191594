package vocal

import (
	"time"
)

// Waveform is conditioned mono audio ready for analysis. Samples are
// band-limited and RMS normalized; the pre-normalization level survives
// in InputLoudnessDb and InputPeak so absolute loudness stays
// observable.
type Waveform struct {
	Samples    []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Duration   time.Duration `json:"duration"`

	InputLoudnessDb float64 `json:"input_loudness_db"` // dBFS before normalization
	InputPeak       float64 `json:"input_peak"`        // absolute peak before normalization

	SourceFormat string `json:"source_format,omitempty"` // container of the original file
}

// Seconds returns the duration as float seconds
func (w *Waveform) Seconds() float64 {
	return w.Duration.Seconds()
}

// Slice returns the samples between two time offsets, clamped to the
// waveform bounds.
func (w *Waveform) Slice(startSec, endSec float64) []float64 {
	start := int(startSec * float64(w.SampleRate))
	end := int(endSec * float64(w.SampleRate))

	start = max(start, 0)
	end = min(end, len(w.Samples))
	if start >= end {
		return []float64{}
	}
	return w.Samples[start:end]
}
