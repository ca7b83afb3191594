package spectral

// ZeroCrossingRate calculates zero crossing rate for voice activity
// detection. Low ZCR indicates voiced speech, high ZCR indicates
// fricatives or noise.
type ZeroCrossingRate struct {
	sampleRate int
	frameSize  int
	hopSize    int
}

// NewZeroCrossingRate creates a ZCR calculator with 20 ms frames and
// 10 ms hop, matching the voice activity detector.
func NewZeroCrossingRate(sampleRate int) *ZeroCrossingRate {
	return NewZeroCrossingRateWithParams(sampleRate, sampleRate*20/1000, sampleRate*10/1000)
}

// NewZeroCrossingRateWithParams creates a calculator with custom framing
func NewZeroCrossingRateWithParams(sampleRate, frameSize, hopSize int) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		hopSize:    hopSize,
	}
}

// Compute calculates normalized ZCR in [0, 1] for a single frame,
// crossings divided by the maximum possible for the frame length.
func (zcr *ZeroCrossingRate) Compute(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0 && frame[i] < 0) || (frame[i-1] < 0 && frame[i] >= 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(frame)-1)
}

// ComputePerSecond calculates ZCR as crossings per second
func (zcr *ZeroCrossingRate) ComputePerSecond(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	normalized := zcr.Compute(frame)
	frameDuration := float64(len(frame)) / float64(zcr.sampleRate)
	return normalized * float64(len(frame)-1) / frameDuration
}

// ComputeFrames calculates normalized ZCR for overlapping frames
func (zcr *ZeroCrossingRate) ComputeFrames(signal []float64) []float64 {
	if len(signal) < zcr.frameSize {
		return []float64{}
	}

	numFrames := (len(signal)-zcr.frameSize)/zcr.hopSize + 1
	values := make([]float64, 0, numFrames)

	for i := range numFrames {
		start := i * zcr.hopSize
		end := start + zcr.frameSize
		if end > len(signal) {
			break
		}
		values = append(values, zcr.Compute(signal[start:end]))
	}

	return values
}
