package conversation

import (
	"fmt"

	"github.com/voicedesk/voicedesk/internal/lead"
)

// SystemPrompt builds the fixed per-turn system instruction for a business.
// The assistant plays the business's secretary, collects the four required
// lead fields, and signals completion with the marker token.
func SystemPrompt(businessName string) string {
	return fmt.Sprintf(
		"You are the AI secretary for %s. Diagnose the customer's issue, "+
			"build trust, and schedule a visit. You must collect four things: "+
			"the customer's name, phone number, address, and preferred time. "+
			"Keep replies short and spoken-friendly. Once you have all four, "+
			"summarize the job and end your reply with %s.",
		businessName, lead.CompletionMarker,
	)
}
