package conversation

import "time"

// Speaker identifies who produced an utterance.
type Speaker string

const (
	SpeakerCustomer  Speaker = "customer"
	SpeakerAssistant Speaker = "assistant"
)

// Utterance is a single speaker-tagged entry in a transcript. Immutable once
// appended; ordering defines the transcript.
type Utterance struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// State is the full mutable state of one conversation session. It is owned by
// exactly one active session and threaded through the engine explicitly.
type State struct {
	SessionID  string      `json:"session_id"`
	BusinessID string      `json:"business_id"`
	Transcript []Utterance `json:"transcript"`
	// LeadDispatched is monotonic: it flips false to true at most once per
	// session lifetime and is only cleared by a full reset.
	LeadDispatched bool `json:"lead_dispatched"`
	// LastInputID guards against duplicate delivery of the same captured
	// audio event.
	LastInputID string    `json:"last_input_id,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewState returns an Idle session state: empty transcript, no lead, no
// processed input.
func NewState(sessionID, businessID string) *State {
	now := time.Now().UTC()
	return &State{
		SessionID:  sessionID,
		BusinessID: businessID,
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

// Append adds an utterance to the transcript.
func (s *State) Append(speaker Speaker, text string) {
	now := time.Now().UTC()
	s.Transcript = append(s.Transcript, Utterance{
		Speaker: speaker,
		Text:    text,
		At:      now,
	})
	s.UpdatedAt = now
}

// ChatHistory renders the transcript as chat messages for the LLM.
func (s *State) ChatHistory() []ChatMessage {
	history := make([]ChatMessage, 0, len(s.Transcript))
	for _, u := range s.Transcript {
		role := ChatRoleUser
		if u.Speaker == SpeakerAssistant {
			role = ChatRoleAssistant
		}
		history = append(history, ChatMessage{Role: role, Content: u.Text})
	}
	return history
}
