package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PreprocessConfig controls decoding, resampling and conditioning
type PreprocessConfig struct {
	TargetSampleRate int     `json:"target_sample_rate" yaml:"target_sample_rate"`
	LowCutoffHz      float64 `json:"low_cutoff_hz" yaml:"low_cutoff_hz"`
	HighCutoffHz     float64 `json:"high_cutoff_hz" yaml:"high_cutoff_hz"`
	TargetRMS        float64 `json:"target_rms" yaml:"target_rms"`

	// Input quieter than this after band limiting is rejected as
	// silence rather than normalized up into garbage.
	SilenceFloorDb float64 `json:"silence_floor_db" yaml:"silence_floor_db"`
}

// VADConfig controls the energy and zero-crossing voice activity
// detector.
type VADConfig struct {
	FrameMs          int     `json:"frame_ms" yaml:"frame_ms"`
	HopMs            int     `json:"hop_ms" yaml:"hop_ms"`
	EnergyPercentile float64 `json:"energy_percentile" yaml:"energy_percentile"`
	MaxZCR           float64 `json:"max_zcr" yaml:"max_zcr"`
	MinVoicedRatio   float64 `json:"min_voiced_ratio" yaml:"min_voiced_ratio"`
}

// SegmentConfig controls representative segment selection
type SegmentConfig struct {
	NumCandidates     int     `json:"num_candidates" yaml:"num_candidates"`
	SegmentSeconds    float64 `json:"segment_seconds" yaml:"segment_seconds"`
	MinSegmentSeconds float64 `json:"min_segment_seconds" yaml:"min_segment_seconds"`
	NumSelected       int     `json:"num_selected" yaml:"num_selected"`
	F0ConfWeight      float64 `json:"f0_conf_weight" yaml:"f0_conf_weight"`
	RMSWeight         float64 `json:"rms_weight" yaml:"rms_weight"`
}

// FeatureConfig controls per-segment feature extraction
type FeatureConfig struct {
	MinF0Hz float64 `json:"min_f0_hz" yaml:"min_f0_hz"`
	MaxF0Hz float64 `json:"max_f0_hz" yaml:"max_f0_hz"`

	// Workers bounds segment-level parallelism, 0 means NumCPU
	Workers int `json:"workers" yaml:"workers"`
}

// ReferenceStat is the population mean and spread of one feature used
// for z-scoring.
type ReferenceStat struct {
	Mean float64 `json:"mean" yaml:"mean"`
	Std  float64 `json:"std" yaml:"std"`
}

// ScoringConfig controls the clarity score and grading
type ScoringConfig struct {
	References map[string]ReferenceStat `json:"references" yaml:"references"`

	// Composite weights applied to feature z-scores
	Weights map[string]float64 `json:"weights" yaml:"weights"`

	// Scores are capped here when HNR falls below BreathyHNRThreshold
	BreathyHNRThreshold float64 `json:"breathy_hnr_threshold" yaml:"breathy_hnr_threshold"`
	BreathyCap          float64 `json:"breathy_cap" yaml:"breathy_cap"`

	HighGradeThreshold   float64 `json:"high_grade_threshold" yaml:"high_grade_threshold"`
	MediumGradeThreshold float64 `json:"medium_grade_threshold" yaml:"medium_grade_threshold"`
}

// SourceCorrection is a set of additive feature deltas compensating a
// known recording channel.
type SourceCorrection map[string]float64

// Config is the root analyzer configuration
type Config struct {
	Preprocess PreprocessConfig `json:"preprocess" yaml:"preprocess"`
	VAD        VADConfig        `json:"vad" yaml:"vad"`
	Segment    SegmentConfig    `json:"segment" yaml:"segment"`
	Feature    FeatureConfig    `json:"feature" yaml:"feature"`
	Scoring    ScoringConfig    `json:"scoring" yaml:"scoring"`

	// Corrections keyed by source profile name, e.g. "voice-messenger"
	Corrections map[string]SourceCorrection `json:"corrections" yaml:"corrections"`
}

// DefaultPreprocessConfig returns the standard conditioning chain:
// 16 kHz mono, 80-8000 Hz band limit, RMS normalized to 0.1.
func DefaultPreprocessConfig() PreprocessConfig {
	return PreprocessConfig{
		TargetSampleRate: 16000,
		LowCutoffHz:      80.0,
		HighCutoffHz:     8000.0,
		TargetRMS:        0.1,
		SilenceFloorDb:   -85.0,
	}
}

// DefaultVADConfig returns the standard detector settings
func DefaultVADConfig() VADConfig {
	return VADConfig{
		FrameMs:          20,
		HopMs:            10,
		EnergyPercentile: 0.25,
		MaxZCR:           0.15,
		MinVoicedRatio:   0.25,
	}
}

// DefaultSegmentConfig returns the standard selection settings
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		NumCandidates:     12,
		SegmentSeconds:    10.0,
		MinSegmentSeconds: 1.0,
		NumSelected:       6,
		F0ConfWeight:      0.7,
		RMSWeight:         0.3,
	}
}

// DefaultFeatureConfig returns the standard extraction settings
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		MinF0Hz: 60.0,
		MaxF0Hz: 700.0,
		Workers: 0,
	}
}

// DefaultScoringConfig returns reference statistics and weights for the
// clarity composite.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		References: map[string]ReferenceStat{
			"cpp":           {Mean: 9.5, Std: 2.5},
			"hnr":           {Mean: 19.0, Std: 6.0},
			"spectral_tilt": {Mean: -8.0, Std: 4.0},
			"flatness":      {Mean: 0.25, Std: 0.15},
			"f0_confidence": {Mean: 0.65, Std: 0.2},
			"aperiodicity":  {Mean: 0.3, Std: 0.2},
		},
		Weights: map[string]float64{
			"cpp":           1.0,
			"hnr":           1.0,
			"spectral_tilt": -1.0,
			"flatness":      -1.0,
			"f0_confidence": 0.5,
			"aperiodicity":  -0.5,
		},
		BreathyHNRThreshold:  10.0,
		BreathyCap:           60.0,
		HighGradeThreshold:   70.0,
		MediumGradeThreshold: 40.0,
	}
}

// DefaultCorrections returns the additive deltas for known lossy
// recording channels. Keys follow the feature names used in scoring.
func DefaultCorrections() map[string]SourceCorrection {
	return map[string]SourceCorrection{
		"voice-messenger": {
			"hnr":           -1.0,
			"spectral_tilt": 0.5,
			"flatness":      0.02,
		},
		"social-video": {
			"cpp": -0.8,
		},
		"low-bitrate": {
			"hnr":      -2.0,
			"flatness": 0.05,
		},
		"amr-nb": {
			"hnr":          -2.0,
			"aperiodicity": 0.05,
		},
	}
}

// DefaultConfig returns the complete default configuration
func DefaultConfig() *Config {
	return &Config{
		Preprocess:  DefaultPreprocessConfig(),
		VAD:         DefaultVADConfig(),
		Segment:     DefaultSegmentConfig(),
		Feature:     DefaultFeatureConfig(),
		Scoring:     DefaultScoringConfig(),
		Corrections: DefaultCorrections(),
	}
}

// LoadFile reads a YAML config file layered over the defaults, so a
// file only needs to state the fields it overrides.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with
func (c *Config) Validate() error {
	if c.Preprocess.TargetSampleRate <= 0 {
		return fmt.Errorf("target_sample_rate must be positive, got %d", c.Preprocess.TargetSampleRate)
	}
	if c.Preprocess.LowCutoffHz < 0 || c.Preprocess.HighCutoffHz <= c.Preprocess.LowCutoffHz {
		return fmt.Errorf("invalid band limit cutoffs: %.1f-%.1f Hz",
			c.Preprocess.LowCutoffHz, c.Preprocess.HighCutoffHz)
	}
	if c.Preprocess.TargetRMS <= 0 || c.Preprocess.TargetRMS > 1 {
		return fmt.Errorf("target_rms must be in (0, 1], got %g", c.Preprocess.TargetRMS)
	}
	if c.Preprocess.SilenceFloorDb >= 0 {
		return fmt.Errorf("silence_floor_db must be negative, got %g", c.Preprocess.SilenceFloorDb)
	}
	if c.VAD.FrameMs <= 0 || c.VAD.HopMs <= 0 {
		return fmt.Errorf("vad frame_ms and hop_ms must be positive")
	}
	if c.Segment.NumSelected <= 0 || c.Segment.NumCandidates < c.Segment.NumSelected {
		return fmt.Errorf("segment selection needs num_candidates >= num_selected > 0")
	}
	if c.Segment.SegmentSeconds <= 0 || c.Segment.MinSegmentSeconds <= 0 {
		return fmt.Errorf("segment durations must be positive")
	}
	if c.Feature.MinF0Hz <= 0 || c.Feature.MaxF0Hz <= c.Feature.MinF0Hz {
		return fmt.Errorf("invalid f0 range: %.1f-%.1f Hz", c.Feature.MinF0Hz, c.Feature.MaxF0Hz)
	}
	return nil
}
