package vocal

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-vox/transcode"
)

func vowelAudioData(f0 float64, seconds float64) *transcode.AudioData {
	return &transcode.AudioData{
		PCM:        vowelSignal(f0, 16000, seconds),
		SampleRate: 16000,
		Channels:   1,
		Format:     "wav",
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	a := NewAnalyzer(nil)

	result, err := a.Analyze(context.Background(), vowelAudioData(220, 3.0), "")
	require.NoError(t, err)

	assert.InDelta(t, 3.0, result.Duration, 0.05)
	assert.Equal(t, 16000, result.SampleRate)
	assert.Equal(t, "wav", result.SourceFormat)
	assert.Empty(t, result.CorrectionProfile)

	assert.Greater(t, result.VoicedRatio, 0.25)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Empty(t, result.Warnings)

	// A 3 second clip analyzes as one whole-clip segment
	require.Len(t, result.Segments, 1)
	assert.InDelta(t, 3.0, result.Segments[0].EndSec, 0.05)

	assert.Greater(t, result.Score.Score, 0.0)
	assert.LessOrEqual(t, result.Score.Score, 100.0)
	assert.NotEqual(t, GradeLow, result.Score.Grade)

	require.Len(t, result.TypeCode, 4)
	assert.Equal(t, result.TypeCode, result.Profile.Code)
	assert.NotEmpty(t, result.Profile.Name)

	assert.Equal(t, GenderFemale, result.Gender)
	assert.InDelta(t, 220.0, result.Range.MedianF0, 5.0)
	assert.Equal(t, "A3", result.Range.CurrentNote)

	assert.False(t, result.Vibrato.Present)

	require.NotEmpty(t, result.Training)
	assert.Equal(t, "basic", result.Training[len(result.Training)-1].Category)

	_, ok := result.Features["cpp"]
	assert.True(t, ok)
	assert.False(t, result.AnalyzedAt.IsZero())
}

func TestAnalyzeMaleRegister(t *testing.T) {
	a := NewAnalyzer(nil)

	result, err := a.Analyze(context.Background(), vowelAudioData(110, 3.0), "")
	require.NoError(t, err)

	assert.Equal(t, GenderMale, result.Gender)
	assert.InDelta(t, 110.0, result.Range.MedianF0, 5.0)
}

func TestAnalyzeAppliesSourceCorrection(t *testing.T) {
	a := NewAnalyzer(nil)

	result, err := a.Analyze(context.Background(), vowelAudioData(220, 2.0), "kakaotalk")
	require.NoError(t, err)

	assert.Equal(t, "voice-messenger", result.CorrectionProfile)
}

func TestAnalyzeNoiseDegradesConfidence(t *testing.T) {
	a := NewAnalyzer(nil)

	data := &transcode.AudioData{
		PCM:        noiseSamples(7, 32000),
		SampleRate: 16000,
		Channels:   1,
	}

	result, err := a.Analyze(context.Background(), data, "")
	require.NoError(t, err)

	assert.Equal(t, ConfidenceLow, result.Confidence)
	assert.NotEmpty(t, result.Warnings)
	assert.Less(t, result.VoicedRatio, 0.25)
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := NewAnalyzer(nil)

	first, err := a.Analyze(context.Background(), vowelAudioData(220, 3.0), "")
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), vowelAudioData(220, 3.0), "")
	require.NoError(t, err)

	// Identical samples and config must produce identical output
	first.AnalyzedAt = time.Time{}
	second.AnalyzedAt = time.Time{}

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestAnalyzeRejectsSilentInput(t *testing.T) {
	a := NewAnalyzer(nil)

	data := &transcode.AudioData{
		PCM:        make([]float64, 48000),
		SampleRate: 16000,
		Channels:   1,
	}

	_, err := a.Analyze(context.Background(), data, "")
	assert.ErrorIs(t, err, ErrInvalidAudio)
}

func TestAnalyzeRejectsEmptyInput(t *testing.T) {
	a := NewAnalyzer(nil)

	_, err := a.Analyze(context.Background(), &transcode.AudioData{}, "")
	assert.ErrorIs(t, err, ErrInvalidAudio)
}

func TestAnalyzeFileMissing(t *testing.T) {
	a := NewAnalyzer(nil)

	_, err := a.AnalyzeFile(context.Background(), "/nonexistent/clip.wav", "")
	assert.ErrorIs(t, err, ErrInvalidAudio)
}
