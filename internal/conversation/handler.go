package conversation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/voicedesk/voicedesk/internal/directory"
	"github.com/voicedesk/voicedesk/internal/lead"
	"github.com/voicedesk/voicedesk/pkg/logging"
)

type sessionEngine interface {
	SubmitInput(ctx context.Context, req SubmitRequest) (*TurnResult, error)
	Reset(ctx context.Context, sessionID string) error
	GetState(ctx context.Context, sessionID string) (*State, error)
}

// Handler wires HTTP requests to the conversation engine.
type Handler struct {
	engine sessionEngine
	logger *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(engine sessionEngine, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// SubmitInputRequest is the request body for submitting captured audio.
type SubmitInputRequest struct {
	BusinessID string `json:"business_id"`
	InputID    string `json:"input_id"`
	// Audio is the base64-encoded captured container (e.g. webm) from the
	// mic widget.
	Audio string `json:"audio"`
}

// UtteranceDTO is a display-ready transcript entry (marker stripped).
type UtteranceDTO struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// SessionResponse is the session state DTO returned to the widget.
type SessionResponse struct {
	SessionID      string         `json:"session_id"`
	BusinessID     string         `json:"business_id,omitempty"`
	LeadDispatched bool           `json:"lead_dispatched"`
	Duplicate      bool           `json:"duplicate,omitempty"`
	Reply          string         `json:"reply,omitempty"`
	ReplyAudio     string         `json:"reply_audio,omitempty"`
	LeadLink       string         `json:"lead_link,omitempty"`
	Transcript     []UtteranceDTO `json:"transcript"`
}

// SubmitInput handles POST /sessions/{sessionID}/input.
func (h *Handler) SubmitInput(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req SubmitInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode input request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		http.Error(w, "audio must be base64-encoded", http.StatusBadRequest)
		return
	}

	result, err := h.engine.SubmitInput(r.Context(), SubmitRequest{
		SessionID:  sessionID,
		BusinessID: req.BusinessID,
		InputID:    req.InputID,
		Audio:      audio,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := sessionResponse(result.State)
	resp.Duplicate = result.Duplicate
	resp.Reply = result.Reply
	resp.LeadLink = result.LeadLink
	if len(result.ReplyAudio) > 0 {
		resp.ReplyAudio = base64.StdEncoding.EncodeToString(result.ReplyAudio)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Reset handles POST /sessions/{sessionID}/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.engine.Reset(r.Context(), sessionID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := h.engine.GetState(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sessionResponse(state))
}

func sessionResponse(state *State) SessionResponse {
	resp := SessionResponse{
		SessionID:      state.SessionID,
		BusinessID:     state.BusinessID,
		LeadDispatched: state.LeadDispatched,
		Transcript:     make([]UtteranceDTO, 0, len(state.Transcript)),
	}
	for _, u := range state.Transcript {
		resp.Transcript = append(resp.Transcript, UtteranceDTO{
			Speaker: string(u.Speaker),
			Text:    lead.StripMarker(u.Text),
			At:      u.At,
		})
	}
	return resp
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		http.Error(w, "business not found", http.StatusNotFound)
	case errors.Is(err, ErrSessionIDRequired), errors.Is(err, ErrInputIDRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrGeneration):
		h.logger.Error("generation failed", "error", err)
		http.Error(w, "assistant is unavailable, please try again", http.StatusBadGateway)
	default:
		h.logger.Error("failed to process input", "error", err)
		http.Error(w, "Failed to process input", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
