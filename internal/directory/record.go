package directory

import (
	"strings"
	"time"
	"unicode"
)

// Record is a registered business: the assistant persona's employer and the
// destination for dispatched leads. Created once by registration, immutable
// thereafter, looked up by ID only.
type Record struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	WhatsAppNumber string    `json:"whatsapp_number"`
	OwnerEmail     string    `json:"owner_email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RegisterRequest is the request body for registering a business.
type RegisterRequest struct {
	Name           string `json:"name"`
	WhatsAppNumber string `json:"whatsapp_number"`
	OwnerEmail     string `json:"owner_email,omitempty"`
}

// Validate checks the registration fields.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if !strings.HasPrefix(strings.TrimSpace(r.WhatsAppNumber), "+") {
		return ErrInvalidNumber
	}
	if NormalizeE164(r.WhatsAppNumber) == "" {
		return ErrInvalidNumber
	}
	return nil
}

// SlugID derives the stable, URL-safe business ID from a display name:
// lowercased, trimmed, interior whitespace runs collapsed to underscores.
func SlugID(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, "_")
}

// NormalizeE164 reduces a phone value to "+<digits>", or "" if no digits remain.
func NormalizeE164(value string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(value) {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "+" + b.String()
}
