package vocal

import (
	"sort"
	"strings"

	"github.com/RyanBlaney/sonido-vox/logging"
	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

// sourceAliases maps app and codec names onto correction profiles
var sourceAliases = map[string]string{
	"kakaotalk": "voice-messenger",
	"whatsapp":  "voice-messenger",
	"telegram":  "voice-messenger",
	"instagram": "social-video",
	"tiktok":    "social-video",
	"reels":     "social-video",
	"amr":       "amr-nb",
	"3gp":       "amr-nb",
	"3ga":       "amr-nb",
}

// SourceCorrector compensates the systematic feature bias of lossy
// recording channels before scoring. Voice messengers and social video
// re-encode aggressively; without correction the same voice scores
// lower from a messenger clip than from a clean recording.
type SourceCorrector struct {
	corrections map[string]config.SourceCorrection
}

// NewSourceCorrector creates a corrector from the configured table
func NewSourceCorrector(corrections map[string]config.SourceCorrection) *SourceCorrector {
	return &SourceCorrector{corrections: corrections}
}

// ResolveProfile maps a caller-declared source or container format to a
// correction profile name. Returns "" when no correction applies.
func (sc *SourceCorrector) ResolveProfile(source, format string) string {
	for _, key := range []string{source, format} {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if alias, ok := sourceAliases[key]; ok {
			key = alias
		}
		if _, ok := sc.corrections[key]; ok {
			return key
		}
	}
	return ""
}

// Apply shifts the aggregate by the profile's deltas. Returns the
// profile used, or "" when nothing was applied.
func (sc *SourceCorrector) Apply(agg *Aggregate, source, format string) string {
	profile := sc.ResolveProfile(source, format)
	if profile == "" {
		return ""
	}

	correction := sc.corrections[profile]

	// Deterministic application order keeps runs reproducible
	names := make([]string, 0, len(correction))
	for name := range correction {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		agg.ApplyDelta(name, correction[name])
	}

	logging.Debug("applied source correction", logging.Fields{
		"component": "source_corrector",
		"profile":   profile,
		"features":  names,
	})

	return profile
}
