package vocal

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/RyanBlaney/sonido-vox/algorithms/harmonic"
	"github.com/RyanBlaney/sonido-vox/algorithms/stats"
	"github.com/RyanBlaney/sonido-vox/logging"
	"github.com/RyanBlaney/sonido-vox/transcode"
	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

// Confidence levels for an analysis result
const (
	ConfidenceHigh = "high"
	ConfidenceLow  = "low"
)

// AnalysisResult is the complete output for one clip
type AnalysisResult struct {
	Duration        float64 `json:"duration_sec"`
	SampleRate      int     `json:"sample_rate"`
	InputLoudnessDb float64 `json:"input_loudness_db"`
	SourceFormat    string  `json:"source_format,omitempty"`

	VoicedRatio float64 `json:"voiced_ratio"`
	Confidence  string  `json:"confidence"`

	Segments []Segment                `json:"segments"`
	Features map[string]stats.Summary `json:"features"`

	CorrectionProfile string `json:"correction_profile,omitempty"`

	Score ScoreResult `json:"score"`

	Axes     AxisScores   `json:"axes"`
	TypeCode string       `json:"type_code"`
	Profile  VocalProfile `json:"profile"`

	Gender  string                 `json:"gender"`
	Range   VocalRange             `json:"range"`
	Vibrato harmonic.VibratoResult `json:"vibrato"`

	Training []TrainingRecommendation `json:"training"`

	Warnings []string `json:"warnings,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Analyzer runs the full vocal quality pipeline: preprocess, voice
// activity detection, segment selection, parallel feature extraction,
// aggregation, source correction, scoring and type classification.
type Analyzer struct {
	cfg       *config.Config
	decoder   *transcode.Decoder
	preproc   *Preprocessor
	vad       *VoiceActivityDetector
	selector  *SegmentSelector
	corrector *SourceCorrector
	scorer    *Scorer
	classify  *Classifier
}

// NewAnalyzer creates an analyzer, using defaults when cfg is nil
func NewAnalyzer(cfg *config.Config) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Analyzer{
		cfg:       cfg,
		decoder:   transcode.NewDecoder(nil),
		preproc:   NewPreprocessor(cfg.Preprocess),
		vad:       NewVoiceActivityDetector(cfg.VAD),
		selector:  NewSegmentSelector(cfg.Segment),
		corrector: NewSourceCorrector(cfg.Corrections),
		scorer:    NewScorer(cfg.Scoring),
		classify:  NewClassifier(),
	}
}

// AnalyzeFile decodes and analyzes an audio file. The source hint
// names the recording channel ("kakaotalk", "instagram", ...) and may
// be empty.
func (a *Analyzer) AnalyzeFile(ctx context.Context, filename, source string) (*AnalysisResult, error) {
	data, err := a.decoder.DecodeFile(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	return a.Analyze(ctx, data, source)
}

// Analyze runs the pipeline on decoded audio. Only undecodable or
// empty input fails; thin voiced content degrades to a low-confidence
// result with warnings instead of an error.
func (a *Analyzer) Analyze(ctx context.Context, data *transcode.AudioData, source string) (*AnalysisResult, error) {
	start := time.Now()

	waveform, err := a.preproc.Process(data)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Duration:        waveform.Seconds(),
		SampleRate:      waveform.SampleRate,
		InputLoudnessDb: waveform.InputLoudnessDb,
		SourceFormat:    waveform.SourceFormat,
		Confidence:      ConfidenceHigh,
		AnalyzedAt:      start,
	}

	vadResult := a.vad.Detect(waveform)
	result.VoicedRatio = vadResult.VoicedRatio
	if vadResult.VoicedRatio < a.cfg.VAD.MinVoicedRatio {
		result.Confidence = ConfidenceLow
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%v: voiced ratio %.2f below %.2f",
				ErrInsufficientVoiced, vadResult.VoicedRatio, a.cfg.VAD.MinVoicedRatio))
	}

	f0Range := a.pitchSearchRange(waveform)
	segments := a.selector.Select(waveform, f0Range)
	result.Segments = segments
	if len(segments) == 0 {
		result.Confidence = ConfidenceLow
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%v: clip too short for segment selection", ErrInsufficientVoiced))
	}

	vectors, err := a.extractAll(ctx, waveform, segments)
	if err != nil {
		return nil, err
	}

	agg := AggregateSegments(vectors)
	result.Features = agg.Features
	if len(agg.Fallbacks) > 0 {
		result.Confidence = ConfidenceLow
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("features defaulted: %v", agg.Fallbacks))
	}

	result.CorrectionProfile = a.corrector.Apply(agg, source, waveform.SourceFormat)

	result.Score = a.scorer.Score(agg)

	result.Axes = a.classify.Classify(agg, waveform)
	result.TypeCode = result.Axes.Code()
	result.Profile = LookupProfile(result.TypeCode)
	result.Training = RecommendTraining(result.Axes)

	var allVoiced []float64
	for _, fv := range vectors {
		allVoiced = append(allVoiced, fv.VoicedF0s...)
	}
	result.Range = EstimateRange(allVoiced)
	result.Gender = InferGender(result.Range.MedianF0)
	result.Vibrato = a.pickVibrato(vectors)

	logging.Info("analysis complete", logging.Fields{
		"component":  "analyzer",
		"duration":   result.Duration,
		"score":      result.Score.Score,
		"grade":      result.Score.Grade,
		"type":       result.TypeCode,
		"confidence": result.Confidence,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	return result, nil
}

// pitchSearchRange narrows the F0 search band once a rough median
// pitch identifies the register.
func (a *Analyzer) pitchSearchRange(w *Waveform) [2]float64 {
	wide := harmonic.NewF0EstimatorWithRange(w.SampleRate, a.cfg.Feature.MinF0Hz, a.cfg.Feature.MaxF0Hz)

	// One pass over up to 30 s keeps the probe cheap on long clips
	probe := w.Samples
	maxProbe := w.SampleRate * 30
	if len(probe) > maxProbe {
		probe = probe[:maxProbe]
	}

	voiced := wide.Compute(probe).VoicedF0s()
	if len(voiced) == 0 {
		return [2]float64{a.cfg.Feature.MinF0Hz, a.cfg.Feature.MaxF0Hz}
	}

	switch InferGender(stats.Median(voiced)) {
	case GenderMale:
		return [2]float64{60.0, 450.0}
	case GenderFemale:
		return [2]float64{100.0, 700.0}
	default:
		return [2]float64{a.cfg.Feature.MinF0Hz, a.cfg.Feature.MaxF0Hz}
	}
}

// extractAll runs feature extraction over segments with a bounded
// worker pool, preserving segment order.
func (a *Analyzer) extractAll(ctx context.Context, w *Waveform, segments []Segment) ([]FeatureVector, error) {
	if len(segments) == 0 {
		return nil, nil
	}

	workers := a.cfg.Feature.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(segments))

	extractor := NewFeatureExtractor(w.SampleRate, a.cfg.Feature)
	vectors := make([]FeatureVector, len(segments))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				seg := segments[idx]
				vectors[idx] = extractor.Extract(w.Slice(seg.StartSec, seg.EndSec))
			}
		}()
	}

	var ctxErr error
feed:
	for idx := range segments {
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return nil, ctxErr
	}
	return vectors, nil
}

// pickVibrato reports the strongest consistent vibrato found across
// segments.
func (a *Analyzer) pickVibrato(vectors []FeatureVector) harmonic.VibratoResult {
	var rates, extents []float64
	for _, fv := range vectors {
		if fv.Vibrato.Present {
			rates = append(rates, fv.Vibrato.Rate)
			extents = append(extents, fv.Vibrato.Extent)
		}
	}

	// Vibrato on fewer than half the segments is incidental wobble
	if len(rates) == 0 || len(rates)*2 < len(vectors) {
		return harmonic.VibratoResult{}
	}

	return harmonic.VibratoResult{
		Rate:    stats.Mean(rates),
		Extent:  stats.Mean(extents),
		Present: true,
	}
}
