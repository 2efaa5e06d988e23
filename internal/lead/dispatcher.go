package lead

import (
	"fmt"
	"net/url"
	"strings"
)

// Line is one rendered transcript entry handed to the dispatcher.
type Line struct {
	Speaker string // "customer" or "assistant"
	Text    string
}

const (
	SpeakerCustomer  = "customer"
	SpeakerAssistant = "assistant"

	messageBanner = "NEW LEAD"
)

// BuildMessage renders the transcript into the lead notification body:
// a banner followed by one "Label: text" line per utterance, in order, with
// the completion marker removed and whitespace trimmed.
func BuildMessage(lines []Line) string {
	var b strings.Builder
	b.WriteString(messageBanner)
	b.WriteString("\n\n")
	for _, line := range lines {
		label := "Customer"
		if line.Speaker == SpeakerAssistant {
			label = "AI"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(StripMarker(line.Text))
		b.WriteString("\n")
	}
	return b.String()
}

// BuildWhatsAppLink produces the deep link a business owner clicks to receive
// the lead: {base}/{number}?text={encoded message}. Pure function of its
// inputs; identical transcripts yield byte-identical links.
func BuildWhatsAppLink(base, number string, lines []Line) string {
	return fmt.Sprintf("%s/%s?text=%s",
		strings.TrimRight(base, "/"),
		number,
		url.QueryEscape(BuildMessage(lines)),
	)
}
