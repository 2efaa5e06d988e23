package conversation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/voicedesk/voicedesk/internal/directory"
	"github.com/voicedesk/voicedesk/internal/lead"
	"github.com/voicedesk/voicedesk/internal/speech"
	"github.com/voicedesk/voicedesk/pkg/logging"
)

// ----- test doubles -----

type stubDirectory map[string]*directory.Record

func (d stubDirectory) Get(ctx context.Context, id string) (*directory.Record, error) {
	record, ok := d[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return record, nil
}

type passthroughTranscoder struct{}

func (passthroughTranscoder) ToWAV(ctx context.Context, raw []byte) []byte { return raw }

type failingTranscoder struct{}

func (failingTranscoder) ToWAV(ctx context.Context, raw []byte) []byte { return nil }

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type scriptedLLM struct {
	replies []string
	err     error
	calls   int
}

func (s *scriptedLLM) Complete(ctx context.Context, system string, history []ChatMessage) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	reply := s.replies[s.calls%len(s.replies)]
	s.calls++
	return reply, nil
}

type stubSynthesizer struct {
	audio []byte
	err   error
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return s.audio, s.err
}

type recordingNotifier struct {
	calls int
	link  string
}

func (n *recordingNotifier) LeadCaptured(ctx context.Context, business *directory.Record, link string) {
	n.calls++
	n.link = link
}

func acePlumbing() stubDirectory {
	return stubDirectory{
		"ace_plumbing": {
			ID:             "ace_plumbing",
			Name:           "Ace Plumbing",
			WhatsAppNumber: "+15550001111",
		},
	}
}

func newTestEngine(llm LLMClient, stt speech.Transcriber, opts ...func(*EngineConfig)) (*Engine, *lead.InMemoryRepository, *recordingNotifier) {
	leads := lead.NewInMemoryRepository()
	notifier := &recordingNotifier{}
	cfg := EngineConfig{
		Directory:    acePlumbing(),
		States:       NewMemoryStateStore(),
		Transcoder:   passthroughTranscoder{},
		Transcriber:  stt,
		LLM:          llm,
		Synthesizer:  &stubSynthesizer{audio: []byte("mp3")},
		Leads:        leads,
		Notifier:     notifier,
		Logger:       logging.Default(),
		WhatsAppBase: "https://wa.me",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewEngine(cfg), leads, notifier
}

func submit(t *testing.T, e *Engine, inputID string) *TurnResult {
	t.Helper()
	result, err := e.SubmitInput(context.Background(), SubmitRequest{
		SessionID:  "sess-1",
		BusinessID: "ace_plumbing",
		InputID:    inputID,
		Audio:      []byte("webm-bytes"),
	})
	if err != nil {
		t.Fatalf("SubmitInput(%s): %v", inputID, err)
	}
	return result
}

// ----- properties -----

func TestTranscriptGrowsByTwoPerTurn(t *testing.T) {
	engine, _, _ := newTestEngine(
		&scriptedLLM{replies: []string{"Tell me more."}},
		&stubTranscriber{text: "hello"},
	)

	for n := 1; n <= 4; n++ {
		result := submit(t, engine, fmt.Sprintf("input-%d", n))
		if got := len(result.State.Transcript); got != 2*n {
			t.Fatalf("after %d turns: transcript length %d, want %d", n, got, 2*n)
		}
	}
}

func TestAcePlumbingScenario(t *testing.T) {
	engine, leads, notifier := newTestEngine(
		&scriptedLLM{replies: []string{"Got it, I'll note that. What's your address? [DONE]"}},
		&stubTranscriber{text: "My pipe is leaking"},
	)

	result := submit(t, engine, "input-1")

	if len(result.State.Transcript) != 2 {
		t.Fatalf("transcript length %d, want 2", len(result.State.Transcript))
	}
	if !result.State.LeadDispatched {
		t.Error("expected LeadDispatched")
	}
	if !strings.HasPrefix(result.LeadLink, "https://wa.me/+15550001111?text=") {
		t.Errorf("lead link: %q", result.LeadLink)
	}

	parsed, err := url.Parse(result.LeadLink)
	if err != nil {
		t.Fatalf("lead link parse: %v", err)
	}
	text := parsed.Query().Get("text")
	if !strings.Contains(text, "Customer: My pipe is leaking") {
		t.Errorf("lead text missing customer line: %q", text)
	}
	if !strings.Contains(text, "AI: Got it, I'll note that. What's your address?") {
		t.Errorf("lead text missing assistant line: %q", text)
	}
	if strings.Contains(text, "[DONE]") {
		t.Errorf("marker leaked into lead text: %q", text)
	}

	// Stored transcript keeps the raw model output; only outputs strip it.
	if got := result.State.Transcript[1].Text; !strings.Contains(got, "[DONE]") {
		t.Errorf("stored assistant text should keep marker, got %q", got)
	}
	if strings.Contains(result.Reply, "[DONE]") {
		t.Errorf("spoken reply should strip marker, got %q", result.Reply)
	}

	captured, err := leads.ListByBusiness(context.Background(), "ace_plumbing")
	if err != nil {
		t.Fatalf("list leads: %v", err)
	}
	if len(captured) != 1 {
		t.Fatalf("got %d recorded leads, want 1", len(captured))
	}
	if notifier.calls != 1 || notifier.link != result.LeadLink {
		t.Errorf("notifier: calls=%d link=%q", notifier.calls, notifier.link)
	}
}

func TestLeadDispatchedAtMostOnce(t *testing.T) {
	engine, leads, notifier := newTestEngine(
		&scriptedLLM{replies: []string{"All noted, thanks! [DONE]"}},
		&stubTranscriber{text: "details"},
	)

	first := submit(t, engine, "input-1")
	if first.LeadLink == "" {
		t.Fatal("first marked turn should dispatch the lead")
	}

	// Model keeps emitting the marker on later turns; nothing more dispatches.
	second := submit(t, engine, "input-2")
	third := submit(t, engine, "input-3")

	if second.LeadLink != "" || third.LeadLink != "" {
		t.Errorf("later turns dispatched again: %q, %q", second.LeadLink, third.LeadLink)
	}
	if !third.State.LeadDispatched {
		t.Error("LeadDispatched should stay true")
	}

	captured, _ := leads.ListByBusiness(context.Background(), "ace_plumbing")
	if len(captured) != 1 {
		t.Errorf("got %d recorded leads, want 1", len(captured))
	}
	if notifier.calls != 1 {
		t.Errorf("notifier called %d times, want 1", notifier.calls)
	}
}

func TestDuplicateInputIgnored(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"Tell me more."}}
	engine, _, _ := newTestEngine(llm, &stubTranscriber{text: "hello"})

	first := submit(t, engine, "input-1")
	second := submit(t, engine, "input-1")

	if !second.Duplicate {
		t.Error("expected Duplicate flag on resubmission")
	}
	if len(second.State.Transcript) != len(first.State.Transcript) {
		t.Errorf("transcript changed on duplicate: %d -> %d",
			len(first.State.Transcript), len(second.State.Transcript))
	}
	if llm.calls != 1 {
		t.Errorf("llm called %d times, want 1", llm.calls)
	}
}

func TestTranscriptionFailureRecordsPlaceholder(t *testing.T) {
	engine, _, _ := newTestEngine(
		&scriptedLLM{replies: []string{"Sorry, could you repeat that?"}},
		&stubTranscriber{err: speech.ErrTranscription},
	)

	result := submit(t, engine, "input-1")

	if len(result.State.Transcript) != 2 {
		t.Fatalf("transcript length %d, want 2", len(result.State.Transcript))
	}
	if got := result.State.Transcript[0].Text; got != PlaceholderUtterance {
		t.Errorf("customer text: got %q, want placeholder", got)
	}
}

func TestTranscodeFailureRecordsPlaceholder(t *testing.T) {
	engine, _, _ := newTestEngine(
		&scriptedLLM{replies: []string{"Sorry, could you repeat that?"}},
		&stubTranscriber{text: "should not be reached"},
		func(cfg *EngineConfig) { cfg.Transcoder = failingTranscoder{} },
	)

	result := submit(t, engine, "input-1")
	if got := result.State.Transcript[0].Text; got != PlaceholderUtterance {
		t.Errorf("customer text: got %q, want placeholder", got)
	}
}

func TestGenerationErrorLeavesNoAssistantEntry(t *testing.T) {
	engine, _, _ := newTestEngine(
		&scriptedLLM{err: fmt.Errorf("%w: timeout", ErrGeneration)},
		&stubTranscriber{text: "hello"},
	)

	_, err := engine.SubmitInput(context.Background(), SubmitRequest{
		SessionID:  "sess-1",
		BusinessID: "ace_plumbing",
		InputID:    "input-1",
		Audio:      []byte("webm"),
	})
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("got %v, want ErrGeneration", err)
	}

	state, err := engine.GetState(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if len(state.Transcript) != 1 {
		t.Fatalf("transcript length %d, want 1 (customer only)", len(state.Transcript))
	}
	if state.Transcript[0].Speaker != SpeakerCustomer {
		t.Errorf("lone entry speaker: %q", state.Transcript[0].Speaker)
	}
	if state.LeadDispatched {
		t.Error("lead must not dispatch on a failed turn")
	}
}

func TestUnknownBusiness(t *testing.T) {
	engine, _, _ := newTestEngine(
		&scriptedLLM{replies: []string{"hi"}},
		&stubTranscriber{text: "hello"},
	)

	_, err := engine.SubmitInput(context.Background(), SubmitRequest{
		SessionID:  "sess-1",
		BusinessID: "nobody",
		InputID:    "input-1",
		Audio:      []byte("webm"),
	})
	if !errors.Is(err, directory.ErrNotFound) {
		t.Fatalf("got %v, want directory.ErrNotFound", err)
	}

	// No session state was created.
	state, err := engine.GetState(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if len(state.Transcript) != 0 || state.LeadDispatched {
		t.Errorf("session should be Idle, got %+v", state)
	}
}

func TestResetReturnsSessionToIdle(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"All noted! [DONE]"}}
	engine, _, _ := newTestEngine(llm, &stubTranscriber{text: "hello"})

	submit(t, engine, "input-1")
	if err := engine.Reset(context.Background(), "sess-1"); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	state, err := engine.GetState(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if len(state.Transcript) != 0 {
		t.Errorf("transcript not cleared: %d entries", len(state.Transcript))
	}
	if state.LeadDispatched {
		t.Error("LeadDispatched not cleared")
	}

	// The input guard is cleared too: a previously-seen input ID processes.
	result := submit(t, engine, "input-1")
	if result.Duplicate {
		t.Error("input-1 should process after reset")
	}
	if len(result.State.Transcript) != 2 {
		t.Errorf("transcript length %d, want 2", len(result.State.Transcript))
	}
}

func TestSynthesisFailureIsNonFatal(t *testing.T) {
	engine, _, _ := newTestEngine(
		&scriptedLLM{replies: []string{"Tell me more."}},
		&stubTranscriber{text: "hello"},
		func(cfg *EngineConfig) {
			cfg.Synthesizer = &stubSynthesizer{err: speech.ErrSynthesis}
		},
	)

	result := submit(t, engine, "input-1")
	if result.ReplyAudio != nil {
		t.Errorf("expected no audio, got %d bytes", len(result.ReplyAudio))
	}
	if result.Reply != "Tell me more." {
		t.Errorf("reply: got %q", result.Reply)
	}
}

func TestSubmitInputValidation(t *testing.T) {
	engine, _, _ := newTestEngine(
		&scriptedLLM{replies: []string{"hi"}},
		&stubTranscriber{text: "hello"},
	)
	ctx := context.Background()

	if _, err := engine.SubmitInput(ctx, SubmitRequest{InputID: "x"}); !errors.Is(err, ErrSessionIDRequired) {
		t.Errorf("missing session id: got %v", err)
	}
	if _, err := engine.SubmitInput(ctx, SubmitRequest{SessionID: "s"}); !errors.Is(err, ErrInputIDRequired) {
		t.Errorf("missing input id: got %v", err)
	}
}
