package lead

import (
	"net/url"
	"strings"
	"testing"
)

var sampleLines = []Line{
	{Speaker: SpeakerCustomer, Text: "My pipe is leaking"},
	{Speaker: SpeakerAssistant, Text: "Got it, I'll note that. What's your address? [DONE]"},
}

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage(sampleLines)

	if !strings.HasPrefix(msg, "NEW LEAD\n\n") {
		t.Errorf("missing banner: %q", msg)
	}
	if !strings.Contains(msg, "Customer: My pipe is leaking\n") {
		t.Errorf("missing customer line: %q", msg)
	}
	if !strings.Contains(msg, "AI: Got it, I'll note that. What's your address?\n") {
		t.Errorf("missing assistant line: %q", msg)
	}
	if strings.Contains(msg, "[DONE]") {
		t.Errorf("marker leaked into message: %q", msg)
	}
}

func TestBuildMessageTrimsWhitespace(t *testing.T) {
	msg := BuildMessage([]Line{{Speaker: SpeakerCustomer, Text: "  spaced out  "}})
	if !strings.Contains(msg, "Customer: spaced out\n") {
		t.Errorf("whitespace not trimmed: %q", msg)
	}
}

func TestBuildWhatsAppLink(t *testing.T) {
	link := BuildWhatsAppLink("https://wa.me", "+15550001111", sampleLines)

	if !strings.HasPrefix(link, "https://wa.me/+15550001111?text=") {
		t.Fatalf("unexpected link shape: %q", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	text := parsed.Query().Get("text")
	if !strings.Contains(text, "My pipe is leaking") {
		t.Errorf("decoded text missing customer line: %q", text)
	}
	if strings.Contains(text, "[DONE]") {
		t.Errorf("marker leaked into link: %q", text)
	}
}

func TestBuildWhatsAppLinkTrailingSlashBase(t *testing.T) {
	a := BuildWhatsAppLink("https://wa.me/", "+15550001111", sampleLines)
	b := BuildWhatsAppLink("https://wa.me", "+15550001111", sampleLines)
	if a != b {
		t.Errorf("trailing slash changed output:\n%q\n%q", a, b)
	}
}

func TestBuildWhatsAppLinkIsPure(t *testing.T) {
	first := BuildWhatsAppLink("https://wa.me", "+15550001111", sampleLines)
	second := BuildWhatsAppLink("https://wa.me", "+15550001111", sampleLines)
	if first != second {
		t.Errorf("identical inputs produced different links:\n%q\n%q", first, second)
	}
}
