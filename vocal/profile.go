package vocal

import (
	"math"
	"sort"
	"strconv"

	"github.com/RyanBlaney/sonido-vox/algorithms/stats"
)

// Gender labels inferred from median pitch
const (
	GenderFemale  = "female"
	GenderMale    = "male"
	GenderUnknown = "unknown"
)

// VocalProfile describes one of the sixteen vocal types
type VocalProfile struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	RecommendedSongs []string `json:"recommended_songs"`
}

// VocalRange is the estimated comfortable and potential top of range
type VocalRange struct {
	MedianF0      float64 `json:"median_f0"`      // Hz
	CurrentTopHz  float64 `json:"current_top_hz"` // 95th percentile voiced F0
	CurrentNote   string  `json:"current_note"`
	PotentialNote string  `json:"potential_note"` // 2.5 semitones above current
}

// TrainingRecommendation is one suggested practice focus
type TrainingRecommendation struct {
	Category    string   `json:"category"` // axis name or "basic"
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Exercises   []string `json:"exercises"`
	Priority    float64  `json:"priority"` // 0-1
}

var vocalProfiles = map[string]VocalProfile{
	"BTCP": {
		Code: "BTCP", Name: "Crystal Diva",
		Description:      "A clear, intense upper register. Transparent like crystal yet powerful enough to command a room.",
		Strengths:        []string{"Radiant high notes", "Strong projection"},
		Improvements:     []string{"Soften dynamics for intimate passages"},
		RecommendedSongs: []string{"IU - Through the Night", "Taeyeon - I", "Adele - Hello"},
	},
	"BTCS": {
		Code: "BTCS", Name: "Silver Bell",
		Description:      "A pure, chiming timbre. Clear and gentle with rich harmonics underneath.",
		Strengths:        []string{"Clean intonation", "Warm harmonic body"},
		Improvements:     []string{"Build stamina for louder repertoire"},
		RecommendedSongs: []string{"Lee So-ra - Please", "Sung Si-kyung - Every Moment of You", "John Legend - All of Me"},
	},
	"BTHP": {
		Code: "BTHP", Name: "Power Soprano",
		Description:      "A commanding high voice. Grand and dramatic, built for big stages.",
		Strengths:        []string{"Dramatic delivery", "Full-bodied highs"},
		Improvements:     []string{"Work on pitch precision in fast runs"},
		RecommendedSongs: []string{"So Hyang - I Give You My Heart", "Whitney Houston - I Will Always Love You"},
	},
	"BTHS": {
		Code: "BTHS", Name: "Angel Voice",
		Description:      "Soft and warm with a mysterious shimmer. A voice that comforts.",
		Strengths:        []string{"Soothing tone", "Expressive warmth"},
		Improvements:     []string{"Strengthen breath support for sustained notes"},
		RecommendedSongs: []string{"Park Hyo-shin - Snow Flower", "Celine Dion - My Heart Will Go On"},
	},
	"BLCP": {
		Code: "BLCP", Name: "Laser Vocal",
		Description:      "Precise and incisive. A focused delivery that cuts straight through a mix.",
		Strengths:        []string{"Pinpoint accuracy", "Cutting presence"},
		Improvements:     []string{"Add low-register color"},
		RecommendedSongs: []string{"IU - Through the Night", "Ed Sheeran - Perfect"},
	},
	"BLCS": {
		Code: "BLCS", Name: "Clear Tone",
		Description:      "Transparent and unforced, clean like spring water.",
		Strengths:        []string{"Effortless clarity", "Honest delivery"},
		Improvements:     []string{"Develop dynamic contrast"},
		RecommendedSongs: []string{"Bolbbalgan4 - Galaxy", "Taylor Swift - Cardigan"},
	},
	"BLHP": {
		Code: "BLHP", Name: "High Tension",
		Description:      "Energetic and bright, a voice that lifts the whole room.",
		Strengths:        []string{"Infectious energy", "Bright attack"},
		Improvements:     []string{"Clean up tone in quieter sections"},
		RecommendedSongs: []string{"BTS - Dynamite", "Bruno Mars - Uptown Funk"},
	},
	"BLHS": {
		Code: "BLHS", Name: "Sweet Melody",
		Description:      "Honey-sweet and gentle, a voice that warms whoever listens.",
		Strengths:        []string{"Sweet timbre", "Natural intimacy"},
		Improvements:     []string{"Build projection for larger venues"},
		RecommendedSongs: []string{"Lee Hi - No One", "Billie Eilish - Ocean Eyes"},
	},
	"DTCP": {
		Code: "DTCP", Name: "Metal Voice",
		Description:      "A voice of steel. Heavy, intense lows that leave a mark.",
		Strengths:        []string{"Weighty lows", "Commanding intensity"},
		Improvements:     []string{"Open up the upper register"},
		RecommendedSongs: []string{"Im Chang-jung - A Glass of Soju", "Johnny Cash - Hurt"},
	},
	"DTCS": {
		Code: "DTCS", Name: "Dark Knight",
		Description:      "Mysterious and deep, a rich low register with quiet gravity.",
		Strengths:        []string{"Deep resonance", "Understated control"},
		Improvements:     []string{"Brighten diction for clarity"},
		RecommendedSongs: []string{"Kim Bum-soo - One Day", "Sam Smith - Stay With Me"},
	},
	"DTHP": {
		Code: "DTHP", Name: "Thunder Vocal",
		Description:      "Explosive low power with overwhelming presence.",
		Strengths:        []string{"Explosive dynamics", "Stage presence"},
		Improvements:     []string{"Steady the pitch under full power"},
		RecommendedSongs: []string{"Gummy - You Are My Everything", "John Legend - Ordinary People"},
	},
	"DTHS": {
		Code: "DTHS", Name: "Velvet Voice",
		Description:      "Smooth as velvet, deep and warm in the low-mid register.",
		Strengths:        []string{"Silky legato", "Emotional depth"},
		Improvements:     []string{"Add articulation for uptempo material"},
		RecommendedSongs: []string{"Naul - Memory of the Wind", "Frank Sinatra - Fly Me to the Moon"},
	},
	"DLCP": {
		Code: "DLCP", Name: "Sharp Shooter",
		Description:      "A low-register specialist with dead-accurate pitch.",
		Strengths:        []string{"Reliable intonation", "Clean low notes"},
		Improvements:     []string{"Broaden tonal palette"},
		RecommendedSongs: []string{"Paul Kim - Every Day, Every Moment", "Ed Sheeran - Thinking Out Loud"},
	},
	"DLCS": {
		Code: "DLCS", Name: "Mystic Voice",
		Description:      "Dreamlike and deep, a timbre that draws listeners in.",
		Strengths:        []string{"Atmospheric color", "Subtle phrasing"},
		Improvements:     []string{"Firm up breath support"},
		RecommendedSongs: []string{"Crush - Beautiful", "Daniel Caesar - Best Part"},
	},
	"DLHP": {
		Code: "DLHP", Name: "Power Ranger",
		Description:      "Strong, stable low-mids that anchor any arrangement.",
		Strengths:        []string{"Solid foundation", "Dependable power"},
		Improvements:     []string{"Refine tone focus"},
		RecommendedSongs: []string{"Yoon Jong-shin - Like It", "John Mayer - Gravity"},
	},
	"DLHS": {
		Code: "DLHS", Name: "Husky Voice",
		Description:      "A charming husky tone, rough and soft at once.",
		Strengths:        []string{"Distinctive texture", "Natural character"},
		Improvements:     []string{"Protect the voice with good technique"},
		RecommendedSongs: []string{"Heize - Don't Come Back", "Amy Winehouse - Valerie"},
	},
}

// defaultProfile covers codes missing from the table
var defaultProfile = VocalProfile{
	Code: "", Name: "Unclassified Voice",
	Description:      "A voice with its own character that resists easy categories.",
	Strengths:        []string{"Distinctive timbre", "Untapped potential"},
	Improvements:     []string{"Consistent practice", "Explore different genres"},
	RecommendedSongs: []string{"Try songs across several genres"},
}

// LookupProfile returns the profile for a 4-letter code, falling back
// to the default profile with the code filled in.
func LookupProfile(code string) VocalProfile {
	if profile, ok := vocalProfiles[code]; ok {
		return profile
	}
	profile := defaultProfile
	profile.Code = code
	return profile
}

// InferGender guesses speaker gender from the median voiced pitch.
// Above 180 Hz reads female, below 130 Hz male; the overlap zone leans
// on how close the median sits to either boundary.
func InferGender(medianF0 float64) string {
	switch {
	case medianF0 <= 0:
		return GenderUnknown
	case medianF0 > 180.0:
		return GenderFemale
	case medianF0 < 130.0:
		return GenderMale
	case medianF0 >= 155.0:
		return GenderFemale
	default:
		return GenderMale
	}
}

// FreqToNote converts a frequency to its nearest note name, C0 upward
func FreqToNote(frequency float64) string {
	if frequency <= 0 {
		return "C4"
	}

	c0 := 440.0 * math.Pow(2.0, -4.75)
	if frequency <= c0 {
		return "C0"
	}

	notes := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	h := int(math.Round(12.0 * math.Log2(frequency/c0)))
	octave := h / 12
	n := h % 12
	return notes[n] + strconv.Itoa(octave)
}

// EstimateRange summarizes the voiced pitch distribution into current
// and potential top notes. The potential note sits 2.5 semitones above
// the current top, the headroom most untrained singers can reach.
func EstimateRange(voicedF0s []float64) VocalRange {
	if len(voicedF0s) == 0 {
		return VocalRange{CurrentNote: "C4", PotentialNote: "D4"}
	}

	median := stats.Median(voicedF0s)
	top := stats.Percentile(voicedF0s, 0.95)
	potential := top * math.Pow(2.0, 2.5/12.0)

	return VocalRange{
		MedianF0:      median,
		CurrentTopHz:  top,
		CurrentNote:   FreqToNote(top),
		PotentialNote: FreqToNote(potential),
	}
}

type axisTraining struct {
	low  TrainingRecommendation
	high TrainingRecommendation
}

var trainingByAxis = map[string]axisTraining{
	"brightness": {
		low: TrainingRecommendation{
			Category: "brightness", Title: "Brighten the Tone",
			Description: "Training toward a lighter, more forward sound",
			Exercises:   []string{"Upper register sirens", "Raising resonance placement", "Forward mask resonance"},
		},
		high: TrainingRecommendation{
			Category: "brightness", Title: "Deepen the Tone",
			Description: "Training toward a richer, deeper color",
			Exercises:   []string{"Chest voice strengthening", "Low register practice", "Back resonance development"},
		},
	},
	"thickness": {
		low: TrainingRecommendation{
			Category: "thickness", Title: "Add Body",
			Description: "Training toward a thicker, fuller sound",
			Exercises:   []string{"Diaphragmatic breathing", "Vocal fold closure work", "Expanding resonant space"},
		},
		high: TrainingRecommendation{
			Category: "thickness", Title: "Lighten Up",
			Description: "Training toward a lighter, more agile delivery",
			Exercises:   []string{"Head voice practice", "Resonance balancing", "Breath flow control"},
		},
	},
	"clarity": {
		low: TrainingRecommendation{
			Category: "clarity", Title: "Sharpen Clarity",
			Description: "Training toward a cleaner, more focused sound",
			Exercises:   []string{"Diction drills", "Resonance tuning", "Vocal hygiene habits"},
		},
		high: TrainingRecommendation{
			Category: "clarity", Title: "Diversify Expression",
			Description: "Training toward a wider expressive palette",
			Exercises:   []string{"Timbre variation drills", "Emotional phrasing", "Creative interpretation"},
		},
	},
	"power": {
		low: TrainingRecommendation{
			Category: "power", Title: "Build Vocal Power",
			Description: "Training toward stronger, more impactful delivery",
			Exercises:   []string{"Diaphragmatic breathing", "Vocal strength conditioning", "Dynamic control"},
		},
		high: TrainingRecommendation{
			Category: "power", Title: "Develop Finesse",
			Description: "Training toward subtler, more nuanced delivery",
			Exercises:   []string{"Microphone technique", "Dynamic control", "Nuanced emotional delivery"},
		},
	},
}

var basicTraining = TrainingRecommendation{
	Category: "basic", Title: "Foundational Voice Work",
	Description: "Core exercises that serve every vocalist",
	Exercises:   []string{"Breathing practice", "Vocal warmups", "Scale work"},
	Priority:    0.8,
}

// RecommendTraining derives practice suggestions from axis extremes.
// Axes past +/-40 each contribute one recommendation; the list is
// priority ordered, truncated to three, and always ends with the basic
// set.
func RecommendTraining(scores AxisScores) []TrainingRecommendation {
	axisValues := map[string]float64{
		"brightness": scores.Brightness,
		"thickness":  scores.Thickness,
		"clarity":    scores.Clarity,
		"power":      scores.Power,
	}

	var recs []TrainingRecommendation
	for axis, value := range axisValues {
		if math.Abs(value) <= 40.0 {
			continue
		}

		training := trainingByAxis[axis]
		var rec TrainingRecommendation
		if value > 0 {
			rec = training.high
		} else {
			rec = training.low
		}
		rec.Priority = math.Min(math.Abs(value), 100.0) / 100.0
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority > recs[j].Priority
		}
		return recs[i].Category < recs[j].Category
	})

	if len(recs) > 3 {
		recs = recs[:3]
	}
	return append(recs, basicTraining)
}
