package conversation

import "errors"

var (
	// ErrGeneration is returned when the text-generation collaborator fails.
	// The transcript is left without an assistant entry for the turn; the
	// caller may retry by submitting further input.
	ErrGeneration = errors.New("conversation: generation failed")

	// ErrSessionIDRequired is returned when a request omits the session ID
	ErrSessionIDRequired = errors.New("conversation: session id required")

	// ErrInputIDRequired is returned when a request omits the input ID
	ErrInputIDRequired = errors.New("conversation: input id required")
)
