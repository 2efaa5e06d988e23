package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/voicedesk/voicedesk/internal/directory"
	"github.com/voicedesk/voicedesk/internal/lead"
	"github.com/voicedesk/voicedesk/internal/observability/metrics"
	"github.com/voicedesk/voicedesk/internal/speech"
	"github.com/voicedesk/voicedesk/pkg/logging"
)

// PlaceholderUtterance is recorded as the customer turn when speech-to-text
// cannot produce usable text, so the conversation can continue.
const PlaceholderUtterance = "[inaudible]"

type directoryLookup interface {
	Get(ctx context.Context, id string) (*directory.Record, error)
}

type leadNotifier interface {
	LeadCaptured(ctx context.Context, business *directory.Record, link string)
}

// SubmitRequest carries one captured audio input into a session.
type SubmitRequest struct {
	SessionID  string
	BusinessID string
	InputID    string
	Audio      []byte
}

// TurnResult is returned from a processed turn.
type TurnResult struct {
	State *State
	// Reply is the assistant utterance with the completion marker stripped,
	// ready for display and playback.
	Reply string
	// ReplyAudio is best-effort MP3 playback audio; nil when synthesis failed.
	ReplyAudio []byte
	// LeadLink is set only on the turn that first dispatched the lead.
	LeadLink string
	// Duplicate is true when the input ID matched the last processed input
	// and the turn was skipped.
	Duplicate bool
}

// Engine drives the turn-taking loop for conversation sessions: transcribe
// the customer, consult the model, detect lead completion, dispatch at most
// one lead per session.
type Engine struct {
	directory   directoryLookup
	states      StateStore
	transcoder  speech.Transcoder
	transcriber speech.Transcriber
	llm         LLMClient
	synthesizer speech.Synthesizer
	leads       lead.Repository
	notifier    leadNotifier
	metrics     *metrics.SessionMetrics
	logger      *logging.Logger

	whatsappBase string
}

// EngineConfig configures the Engine. Directory, States, Transcriber and LLM
// are required; the rest degrade gracefully when absent.
type EngineConfig struct {
	Directory    directoryLookup
	States       StateStore
	Transcoder   speech.Transcoder
	Transcriber  speech.Transcriber
	LLM          LLMClient
	Synthesizer  speech.Synthesizer
	Leads        lead.Repository
	Notifier     leadNotifier
	Metrics      *metrics.SessionMetrics
	Logger       *logging.Logger
	WhatsAppBase string
}

// NewEngine creates a conversation engine.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Directory == nil {
		panic("conversation: directory lookup cannot be nil")
	}
	if cfg.States == nil {
		panic("conversation: state store cannot be nil")
	}
	if cfg.Transcriber == nil {
		panic("conversation: transcriber cannot be nil")
	}
	if cfg.LLM == nil {
		panic("conversation: llm client cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.WhatsAppBase == "" {
		cfg.WhatsAppBase = "https://wa.me"
	}
	return &Engine{
		directory:    cfg.Directory,
		states:       cfg.States,
		transcoder:   cfg.Transcoder,
		transcriber:  cfg.Transcriber,
		llm:          cfg.LLM,
		synthesizer:  cfg.Synthesizer,
		leads:        cfg.Leads,
		notifier:     cfg.Notifier,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		whatsappBase: cfg.WhatsAppBase,
	}
}

// SubmitInput processes one captured audio input synchronously and returns
// the new session state. Calls for the same session are expected to be
// sequential; there is no mid-flight cancellation contract beyond ctx.
func (e *Engine) SubmitInput(ctx context.Context, req SubmitRequest) (*TurnResult, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, ErrSessionIDRequired
	}
	if strings.TrimSpace(req.InputID) == "" {
		return nil, ErrInputIDRequired
	}
	start := time.Now()

	business, err := e.directory.Get(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}

	state, err := e.states.Load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = NewState(req.SessionID, business.ID)
	}

	// Idempotence guard: the mic widget can deliver the same captured event
	// twice; the second delivery must not grow the transcript.
	if state.LastInputID != "" && state.LastInputID == req.InputID {
		return &TurnResult{State: state, Duplicate: true}, nil
	}
	state.LastInputID = req.InputID

	state.Append(SpeakerCustomer, e.recognize(ctx, req.Audio))

	reply, err := e.llm.Complete(ctx, SystemPrompt(business.Name), state.ChatHistory())
	if err != nil {
		// No assistant turn is recorded; the customer utterance and input ID
		// stay so a later input continues the conversation.
		if saveErr := e.states.Save(ctx, state); saveErr != nil {
			e.logger.Error("failed to save state after generation error",
				"error", saveErr, "session_id", state.SessionID)
		}
		e.metrics.ObserveTurn("generation_error", time.Since(start).Seconds())
		return nil, err
	}
	state.Append(SpeakerAssistant, reply)

	var leadLink string
	if lead.ContainsMarker(reply) && !state.LeadDispatched {
		state.LeadDispatched = true
		leadLink = lead.BuildWhatsAppLink(e.whatsappBase, business.WhatsAppNumber, transcriptLines(state.Transcript))
		e.recordLead(ctx, business, state, leadLink)
		e.metrics.ObserveLeadDispatched()
		e.logger.Info("lead dispatched",
			"session_id", state.SessionID,
			"business_id", business.ID,
			"turns", len(state.Transcript),
		)
	}

	if err := e.states.Save(ctx, state); err != nil {
		return nil, err
	}

	spoken := lead.StripMarker(reply)
	e.metrics.ObserveTurn("ok", time.Since(start).Seconds())

	return &TurnResult{
		State:      state,
		Reply:      spoken,
		ReplyAudio: e.synthesize(ctx, spoken),
		LeadLink:   leadLink,
	}, nil
}

// Reset clears the session back to Idle: empty transcript, lead flag and
// input guard cleared.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrSessionIDRequired
	}
	return e.states.Delete(ctx, sessionID)
}

// GetState returns current session state; an unknown session is Idle.
func (e *Engine) GetState(ctx context.Context, sessionID string) (*State, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionIDRequired
	}
	state, err := e.states.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = NewState(sessionID, "")
	}
	return state, nil
}

// recognize turns captured audio into customer text, falling back to the
// placeholder utterance on any transcoding or transcription failure.
func (e *Engine) recognize(ctx context.Context, raw []byte) string {
	wav := raw
	if e.transcoder != nil {
		wav = e.transcoder.ToWAV(ctx, raw)
	}
	if len(wav) == 0 {
		e.metrics.ObserveTranscriptionFailure()
		return PlaceholderUtterance
	}

	text, err := e.transcriber.Transcribe(ctx, wav)
	if err != nil {
		e.logger.Warn("transcription failed, recording placeholder", "error", err)
		e.metrics.ObserveTranscriptionFailure()
		return PlaceholderUtterance
	}
	return text
}

// synthesize is best-effort; a missing voice reply is not a turn failure.
func (e *Engine) synthesize(ctx context.Context, text string) []byte {
	if e.synthesizer == nil || text == "" {
		return nil
	}
	audio, err := e.synthesizer.Synthesize(ctx, text)
	if err != nil {
		e.logger.Warn("synthesis failed, continuing without audio", "error", err)
		e.metrics.ObserveSynthesisFailure()
		return nil
	}
	return audio
}

func (e *Engine) recordLead(ctx context.Context, business *directory.Record, state *State, link string) {
	if e.leads != nil {
		_, err := e.leads.Create(ctx, &lead.CreateLeadRequest{
			BusinessID: business.ID,
			SessionID:  state.SessionID,
			Link:       link,
			Transcript: lead.BuildMessage(transcriptLines(state.Transcript)),
		})
		if err != nil {
			e.logger.Error("failed to record lead", "error", err, "session_id", state.SessionID)
		}
	}
	if e.notifier != nil {
		e.notifier.LeadCaptured(ctx, business, link)
	}
}

func transcriptLines(transcript []Utterance) []lead.Line {
	lines := make([]lead.Line, 0, len(transcript))
	for _, u := range transcript {
		lines = append(lines, lead.Line{Speaker: string(u.Speaker), Text: u.Text})
	}
	return lines
}
