package vocal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupProfile(t *testing.T) {
	profile := LookupProfile("BTCP")
	assert.Equal(t, "Crystal Diva", profile.Name)
	assert.NotEmpty(t, profile.Strengths)
	assert.NotEmpty(t, profile.RecommendedSongs)

	// Every axis combination has a profile
	for _, b := range []byte{'B', 'D'} {
		for _, th := range []byte{'T', 'L'} {
			for _, cl := range []byte{'C', 'H'} {
				for _, p := range []byte{'P', 'S'} {
					code := string([]byte{b, th, cl, p})
					got := LookupProfile(code)
					assert.Equal(t, code, got.Code)
					assert.NotEqual(t, "Unclassified Voice", got.Name, code)
				}
			}
		}
	}
}

func TestLookupProfileUnknownCode(t *testing.T) {
	profile := LookupProfile("XXXX")
	assert.Equal(t, "XXXX", profile.Code)
	assert.Equal(t, "Unclassified Voice", profile.Name)
}

func TestInferGender(t *testing.T) {
	tests := []struct {
		medianF0 float64
		want     string
	}{
		{220, GenderFemale},
		{190, GenderFemale},
		{160, GenderFemale},
		{150, GenderMale},
		{110, GenderMale},
		{125, GenderMale},
		{0, GenderUnknown},
		{-5, GenderUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InferGender(tt.medianF0), "medianF0=%v", tt.medianF0)
	}
}

func TestFreqToNote(t *testing.T) {
	tests := []struct {
		freq float64
		want string
	}{
		{440.0, "A4"},
		{261.63, "C4"},
		{220.0, "A3"},
		{110.0, "A2"},
		{27.5, "A0"},
		{0, "C4"},
		{-10, "C4"},
		{5, "C0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FreqToNote(tt.freq), "freq=%v", tt.freq)
	}
}

func TestEstimateRange(t *testing.T) {
	f0s := make([]float64, 100)
	for i := range f0s {
		f0s[i] = 220.0
	}

	r := EstimateRange(f0s)
	assert.InDelta(t, 220.0, r.MedianF0, 1e-9)
	assert.InDelta(t, 220.0, r.CurrentTopHz, 1e-9)
	assert.Equal(t, "A3", r.CurrentNote)
	// 2.5 semitones above A3 rounds up to C4
	assert.Equal(t, "C4", r.PotentialNote)
}

func TestEstimateRangeEmpty(t *testing.T) {
	r := EstimateRange(nil)
	assert.Equal(t, "C4", r.CurrentNote)
	assert.Equal(t, "D4", r.PotentialNote)
	assert.Equal(t, 0.0, r.MedianF0)
}

func TestRecommendTraining(t *testing.T) {
	recs := RecommendTraining(AxisScores{
		Brightness: 80,
		Thickness:  -50,
		Clarity:    10,
		Power:      -90,
	})

	require.Len(t, recs, 4)
	assert.Equal(t, "Build Vocal Power", recs[0].Title)
	assert.InDelta(t, 0.9, recs[0].Priority, 1e-9)
	assert.Equal(t, "Deepen the Tone", recs[1].Title)
	assert.Equal(t, "Add Body", recs[2].Title)
	assert.Equal(t, "basic", recs[3].Category)
}

func TestRecommendTrainingTruncates(t *testing.T) {
	recs := RecommendTraining(AxisScores{
		Brightness: 80,
		Thickness:  -50,
		Clarity:    60,
		Power:      -90,
	})

	// Four extreme axes collapse to the top three plus the basic set
	require.Len(t, recs, 4)
	assert.Equal(t, "basic", recs[3].Category)
	for _, rec := range recs[:3] {
		assert.NotEqual(t, "Add Body", rec.Title)
	}
}

func TestRecommendTrainingNeutral(t *testing.T) {
	recs := RecommendTraining(AxisScores{})

	require.Len(t, recs, 1)
	assert.Equal(t, "basic", recs[0].Category)
}
