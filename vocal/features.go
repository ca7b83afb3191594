package vocal

import (
	"github.com/RyanBlaney/sonido-vox/algorithms/harmonic"
	"github.com/RyanBlaney/sonido-vox/algorithms/spectral"
	"github.com/RyanBlaney/sonido-vox/algorithms/speech"
	"github.com/RyanBlaney/sonido-vox/algorithms/stats"
	"github.com/RyanBlaney/sonido-vox/algorithms/temporal"
	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

// FeatureVector holds the acoustic measurements of one segment
type FeatureVector struct {
	CPP          float64 `json:"cpp"`           // dB
	HNR          float64 `json:"hnr"`           // dB
	SpectralTilt float64 `json:"spectral_tilt"` // dB/octave
	Flatness     float64 `json:"flatness"`      // 0-1
	F0           float64 `json:"f0"`            // Hz, median of voiced frames
	F0Confidence float64 `json:"f0_confidence"` // 0-1
	Aperiodicity float64 `json:"aperiodicity"`  // amplitude CV, 0-1
	Jitter       float64 `json:"jitter"`        // percent
	Shimmer      float64 `json:"shimmer"`       // percent
	H1H2         float64 `json:"h1h2"`          // dB

	SpectralCentroid float64 `json:"spectral_centroid"` // Hz
	SpectralRolloff  float64 `json:"spectral_rolloff"`  // Hz

	F1 float64 `json:"f1"` // Hz, 0 when not found
	F2 float64 `json:"f2"` // Hz
	F3 float64 `json:"f3"` // Hz

	LowBandRatio   float64 `json:"low_band_ratio"`
	MidBandRatio   float64 `json:"mid_band_ratio"`
	HighBandRatio  float64 `json:"high_band_ratio"`
	ChestHeadRatio float64 `json:"chest_head_ratio"`

	// Per-segment pitch data kept for clip-level aggregation
	VoicedF0s []float64              `json:"-"`
	Vibrato   harmonic.VibratoResult `json:"-"`
}

// Map exposes the scored features by name for aggregation and
// correction.
func (fv *FeatureVector) Map() map[string]float64 {
	return map[string]float64{
		"cpp":               fv.CPP,
		"hnr":               fv.HNR,
		"spectral_tilt":     fv.SpectralTilt,
		"flatness":          fv.Flatness,
		"f0":                fv.F0,
		"f0_confidence":     fv.F0Confidence,
		"aperiodicity":      fv.Aperiodicity,
		"jitter":            fv.Jitter,
		"shimmer":           fv.Shimmer,
		"h1h2":              fv.H1H2,
		"spectral_centroid": fv.SpectralCentroid,
		"spectral_rolloff":  fv.SpectralRolloff,
		"f1":                fv.F1,
		"f2":                fv.F2,
		"f3":                fv.F3,
		"low_band_ratio":    fv.LowBandRatio,
		"mid_band_ratio":    fv.MidBandRatio,
		"high_band_ratio":   fv.HighBandRatio,
		"chest_head_ratio":  fv.ChestHeadRatio,
	}
}

// FeatureExtractor computes the full feature vector for a segment.
// Safe for concurrent use; each call builds its own DSP state.
type FeatureExtractor struct {
	sampleRate int
	cfg        config.FeatureConfig
}

// NewFeatureExtractor creates an extractor for waveforms at the given
// analysis rate.
func NewFeatureExtractor(sampleRate int, cfg config.FeatureConfig) *FeatureExtractor {
	return &FeatureExtractor{
		sampleRate: sampleRate,
		cfg:        cfg,
	}
}

// Extract measures one segment of samples
func (fe *FeatureExtractor) Extract(samples []float64) FeatureVector {
	fv := FeatureVector{}
	if len(samples) == 0 {
		return fv
	}

	f0 := harmonic.NewF0EstimatorWithRange(fe.sampleRate, fe.cfg.MinF0Hz, fe.cfg.MaxF0Hz)
	track := f0.Compute(samples)

	voiced := track.VoicedF0s()
	fv.VoicedF0s = voiced
	if len(voiced) > 0 {
		fv.F0 = stats.Median(voiced)
	}
	fv.F0Confidence = track.MeanConfidence()

	fv.CPP = spectral.NewCepstralPeak(fe.sampleRate).Compute(samples)
	fv.HNR = harmonic.NewHNR(fe.sampleRate).Compute(samples)
	fv.H1H2 = harmonic.NewH1H2(fe.sampleRate).Compute(samples)
	fv.Vibrato = harmonic.NewVibratoDetector().Compute(track)

	perturbation := temporal.NewPerturbation(fe.sampleRate).Compute(samples, track)
	fv.Jitter = perturbation.Jitter
	fv.Shimmer = perturbation.Shimmer
	fv.Aperiodicity = perturbation.Aperiodicity

	formants := speech.NewFormantAnalyzer(fe.sampleRate).Compute(samples)
	fv.F1 = formants.F1
	fv.F2 = formants.F2
	fv.F3 = formants.F3

	fe.extractSpectral(samples, &fv)

	return fv
}

// extractSpectral averages frame-level spectral measures over the
// segment.
func (fe *FeatureExtractor) extractSpectral(samples []float64, fv *FeatureVector) {
	spectrum := spectral.NewSpectrum(fe.sampleRate)
	spectra := spectrum.ComputeFrames(samples)
	if len(spectra) == 0 {
		return
	}

	centroid := spectral.NewSpectralCentroid(fe.sampleRate)
	rolloff := spectral.NewSpectralRolloff(fe.sampleRate)
	tilt := spectral.NewSpectralTilt(fe.sampleRate)
	flatness := spectral.NewSpectralFlatness(fe.sampleRate)
	bands := spectral.NewBandEnergy(fe.sampleRate)

	fv.SpectralCentroid = stats.Mean(centroid.ComputeFrames(spectra))
	fv.SpectralRolloff = stats.Mean(rolloff.ComputeFrames(spectra))
	fv.SpectralTilt = stats.Mean(tilt.ComputeFrames(spectra))
	fv.Flatness = stats.Mean(flatness.ComputeFrames(spectra))

	ratios := bands.ComputeFrames(spectra)
	low := make([]float64, len(ratios))
	mid := make([]float64, len(ratios))
	high := make([]float64, len(ratios))
	chestHead := make([]float64, len(ratios))
	for i, r := range ratios {
		low[i] = r.Low
		mid[i] = r.Mid
		high[i] = r.High
		chestHead[i] = r.ChestHeadRatio
	}
	fv.LowBandRatio = stats.Mean(low)
	fv.MidBandRatio = stats.Mean(mid)
	fv.HighBandRatio = stats.Mean(high)
	fv.ChestHeadRatio = stats.Mean(chestHead)
}
