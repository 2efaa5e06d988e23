package lead

import "errors"

var (
	// ErrMissingBusinessID is returned when the business ID is absent
	ErrMissingBusinessID = errors.New("business id is required")

	// ErrMissingLink is returned when the dispatch link is absent
	ErrMissingLink = errors.New("lead link is required")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
