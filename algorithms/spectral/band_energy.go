package spectral

// Band is a frequency interval in Hz
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// BandEnergyRatios holds the fraction of spectral energy in the standard
// voice bands plus the chest/head resonance balance.
type BandEnergyRatios struct {
	Low            float64 `json:"low"`              // 0-500 Hz
	Mid            float64 `json:"mid"`              // 500-2000 Hz
	High           float64 `json:"high"`             // 2000-8000 Hz
	ChestHeadRatio float64 `json:"chest_head_ratio"` // (80-500 Hz) / (500-3000 Hz)
}

// BandEnergy computes energy ratios between frequency bands of a
// magnitude spectrum.
type BandEnergy struct {
	sampleRate int
	lowBand    Band
	midBand    Band
	highBand   Band
	chestBand  Band
	headBand   Band
	epsilon    float64
}

// NewBandEnergy creates a band energy calculator with the standard
// voice analysis bands.
func NewBandEnergy(sampleRate int) *BandEnergy {
	return &BandEnergy{
		sampleRate: sampleRate,
		lowBand:    Band{Low: 0, High: 500},
		midBand:    Band{Low: 500, High: 2000},
		highBand:   Band{Low: 2000, High: 8000},
		chestBand:  Band{Low: 80, High: 500},
		headBand:   Band{Low: 500, High: 3000},
		epsilon:    1e-10,
	}
}

// Compute returns the band energy ratios for a magnitude spectrum
func (be *BandEnergy) Compute(spectrum []float64) BandEnergyRatios {
	if len(spectrum) == 0 {
		return BandEnergyRatios{}
	}

	binWidth := float64(be.sampleRate) / float64((len(spectrum)-1)*2)

	total := 0.0
	for _, mag := range spectrum {
		total += mag * mag
	}
	if total <= be.epsilon {
		return BandEnergyRatios{}
	}

	low := be.bandEnergy(spectrum, binWidth, be.lowBand)
	mid := be.bandEnergy(spectrum, binWidth, be.midBand)
	high := be.bandEnergy(spectrum, binWidth, be.highBand)
	chest := be.bandEnergy(spectrum, binWidth, be.chestBand)
	head := be.bandEnergy(spectrum, binWidth, be.headBand)

	return BandEnergyRatios{
		Low:            low / total,
		Mid:            mid / total,
		High:           high / total,
		ChestHeadRatio: chest / (head + be.epsilon),
	}
}

// ComputeFrames processes multiple magnitude spectra
func (be *BandEnergy) ComputeFrames(spectrogram [][]float64) []BandEnergyRatios {
	ratios := make([]BandEnergyRatios, len(spectrogram))
	for t, spectrum := range spectrogram {
		ratios[t] = be.Compute(spectrum)
	}
	return ratios
}

// EnergyInBand returns the raw energy within an arbitrary band
func (be *BandEnergy) EnergyInBand(spectrum []float64, band Band) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}
	binWidth := float64(be.sampleRate) / float64((len(spectrum)-1)*2)
	return be.bandEnergy(spectrum, binWidth, band)
}

func (be *BandEnergy) bandEnergy(spectrum []float64, binWidth float64, band Band) float64 {
	lowBin := int(band.Low / binWidth)
	highBin := int(band.High / binWidth)

	lowBin = max(lowBin, 0)
	highBin = min(highBin, len(spectrum)-1)

	energy := 0.0
	for i := lowBin; i <= highBin; i++ {
		energy += spectrum[i] * spectrum[i]
	}
	return energy
}
