package speech

import "errors"

var (
	// ErrTranscription is returned when speech-to-text cannot produce usable text
	ErrTranscription = errors.New("speech: transcription failed")

	// ErrSynthesis is returned when text-to-speech cannot produce audio
	ErrSynthesis = errors.New("speech: synthesis failed")
)
