package spectral

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singleBinSpectrum builds a 161-bin magnitude spectrum (320-point FFT
// at 16 kHz, 50 Hz per bin) with one active bin.
func singleBinSpectrum(bin int) []float64 {
	spectrum := make([]float64, 161)
	spectrum[bin] = 1.0
	return spectrum
}

func sineSignal(freq float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range n {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return out
}

func TestSpectralCentroidSingleBin(t *testing.T) {
	sc := NewSpectralCentroid(16000)
	assert.InDelta(t, 1000.0, sc.Compute(singleBinSpectrum(20)), 1e-9)
	assert.Equal(t, 0.0, sc.Compute(nil))
	assert.Equal(t, 0.0, sc.Compute(make([]float64, 161)))
}

func TestSpectralRolloffSingleBin(t *testing.T) {
	sr := NewSpectralRolloff(16000)
	assert.InDelta(t, 1000.0, sr.Compute(singleBinSpectrum(20)), 1e-9)
	assert.Equal(t, 0.0, sr.Compute(make([]float64, 161)))
}

func TestSpectralRolloffCumulative(t *testing.T) {
	// Equal energy in bins 10 and 30: the 85th percentile needs both
	spectrum := make([]float64, 161)
	spectrum[10] = 1.0
	spectrum[30] = 1.0

	sr := NewSpectralRolloff(16000)
	assert.InDelta(t, 1500.0, sr.Compute(spectrum), 1e-9)
}

func TestSpectralFlatnessExtremes(t *testing.T) {
	sf := NewSpectralFlatness(16000)

	flat := make([]float64, 161)
	for i := range flat {
		flat[i] = 1.0
	}
	assert.InDelta(t, 1.0, sf.Compute(flat), 1e-6)

	// A single dominant bin drives flatness toward zero
	peaked := singleBinSpectrum(20)
	assert.Less(t, sf.Compute(peaked), 0.01)
}

func TestSpectralTiltKnownSlope(t *testing.T) {
	// Magnitude falling 6 dB per octave across the analysis band
	spectrum := make([]float64, 161)
	for i := 1; i < len(spectrum); i++ {
		freq := float64(i) * 50.0
		spectrum[i] = 300.0 / freq
	}

	st := NewSpectralTilt(16000)
	assert.InDelta(t, -6.02, st.Compute(spectrum), 0.3)
}

func TestSpectralTiltTooFewBins(t *testing.T) {
	st := NewSpectralTilt(16000)
	assert.Equal(t, 0.0, st.Compute([]float64{1, 2}))
}

func TestBandEnergyLowOnly(t *testing.T) {
	be := NewBandEnergy(16000)

	// All energy at 250 Hz: low band and chest band
	ratios := be.Compute(singleBinSpectrum(5))
	assert.InDelta(t, 1.0, ratios.Low, 1e-9)
	assert.InDelta(t, 0.0, ratios.Mid, 1e-9)
	assert.InDelta(t, 0.0, ratios.High, 1e-9)
	assert.Greater(t, ratios.ChestHeadRatio, 100.0)
}

func TestBandEnergyRatiosPartition(t *testing.T) {
	be := NewBandEnergy(16000)

	rng := rand.New(rand.NewSource(7))
	spectrum := make([]float64, 161)
	for i := range spectrum {
		spectrum[i] = rng.Float64()
	}

	ratios := be.Compute(spectrum)
	assert.Greater(t, ratios.Low, 0.0)
	assert.Greater(t, ratios.Mid, 0.0)
	assert.Greater(t, ratios.High, 0.0)
	// The three bands cover 0-8000 Hz between them
	assert.InDelta(t, 1.0, ratios.Low+ratios.Mid+ratios.High, 0.05)
}

func TestZeroCrossingRateSine(t *testing.T) {
	zcr := NewZeroCrossingRate(16000)

	frame := sineSignal(100, 16000, 320)
	rate := zcr.Compute(frame)
	assert.Greater(t, rate, 0.0)
	assert.Less(t, rate, 0.05)
}

func TestZeroCrossingRateAlternating(t *testing.T) {
	zcr := NewZeroCrossingRate(16000)

	frame := make([]float64, 320)
	for i := range frame {
		if i%2 == 0 {
			frame[i] = 1.0
		} else {
			frame[i] = -1.0
		}
	}
	assert.InDelta(t, 1.0, zcr.Compute(frame), 1e-9)
}

func TestZeroCrossingRateFrames(t *testing.T) {
	zcr := NewZeroCrossingRate(16000)

	signal := sineSignal(100, 16000, 16000)
	values := zcr.ComputeFrames(signal)
	require.NotEmpty(t, values)
	for _, v := range values {
		assert.Less(t, v, 0.05)
	}

	assert.Empty(t, zcr.ComputeFrames(signal[:10]))
}

func TestSpectrumFraming(t *testing.T) {
	s := NewSpectrum(16000)
	assert.Equal(t, 400, s.FrameSize())
	assert.Equal(t, 160, s.HopSize())

	signal := sineSignal(1000, 16000, 16000)
	spectra := s.ComputeFrames(signal)
	require.NotEmpty(t, spectra)
	assert.Len(t, spectra[0], 201)

	// Peak bin should sit at 1000 Hz (bin 25 at 40 Hz per bin)
	peakBin := 0
	for i, mag := range spectra[0] {
		if mag > spectra[0][peakBin] {
			peakBin = i
		}
	}
	assert.Equal(t, 25, peakBin)
}

func TestCepstralPeakHarmonicVsNoise(t *testing.T) {
	sampleRate := 16000
	n := sampleRate / 2

	// Harmonic-rich 200 Hz source, equal-amplitude partials
	harmonicSignal := make([]float64, n)
	for i := range n {
		ti := float64(i) / float64(sampleRate)
		for h := 1; h <= 20; h++ {
			harmonicSignal[i] += math.Sin(2*math.Pi*200.0*float64(h)*ti) / 20.0
		}
	}

	rng := rand.New(rand.NewSource(42))
	noise := make([]float64, n)
	for i := range n {
		noise[i] = rng.Float64()*2 - 1
	}

	cp := NewCepstralPeak(sampleRate)
	harmonicCPP := cp.Compute(harmonicSignal)
	noiseCPP := cp.Compute(noise)

	assert.Greater(t, harmonicCPP, noiseCPP)
	assert.Greater(t, harmonicCPP, 1.0)
	assert.GreaterOrEqual(t, noiseCPP, 0.0)
	assert.LessOrEqual(t, harmonicCPP, 20.0)
}

func TestCepstralPeakShortSignal(t *testing.T) {
	cp := NewCepstralPeak(16000)
	assert.Equal(t, 0.0, cp.Compute(make([]float64, 100)))
}

func TestFFTMagnitudeLength(t *testing.T) {
	f := NewFFT()
	spectrum := f.Compute(sineSignal(1000, 16000, 512))
	mag := f.Magnitude(spectrum)
	assert.Len(t, mag, 257)
}
