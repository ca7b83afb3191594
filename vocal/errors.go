package vocal

import (
	"errors"
)

var (
	// ErrInvalidAudio means the input could not be decoded or holds no
	// samples. This is the only fatal input condition; everything else
	// degrades to a low-confidence result.
	ErrInvalidAudio = errors.New("invalid or empty audio input")

	// ErrInsufficientVoiced is wrapped into warnings when a clip has
	// too little voiced content for reliable analysis. The analysis
	// still completes, flagged Low confidence.
	ErrInsufficientVoiced = errors.New("insufficient voiced content")
)
