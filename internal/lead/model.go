package lead

import (
	"strings"
	"time"
)

// Lead is a dispatch-ready summary of a completed customer conversation.
type Lead struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	SessionID  string    `json:"session_id"`
	Link       string    `json:"link"`
	Transcript string    `json:"transcript"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateLeadRequest captures a dispatched lead for later listing.
type CreateLeadRequest struct {
	BusinessID string
	SessionID  string
	Link       string
	Transcript string
}

// Validate validates the create lead request
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.BusinessID) == "" {
		return ErrMissingBusinessID
	}
	if strings.TrimSpace(r.Link) == "" {
		return ErrMissingLink
	}
	return nil
}
