package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/voicedesk/voicedesk/pkg/logging"
)

// Handler handles HTTP requests for business registration and lookup.
type Handler struct {
	store         Store
	publicBaseURL string
	logger        *logging.Logger
}

// NewHandler creates a new directory handler. publicBaseURL is used to build
// the customer-facing widget link returned after registration.
func NewHandler(store Store, publicBaseURL string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:         store,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Record
	WidgetURL string `json:"widget_url,omitempty"`
}

// Register handles POST /businesses.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode register request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record := Record{
		ID:             SlugID(req.Name),
		Name:           strings.TrimSpace(req.Name),
		WhatsAppNumber: NormalizeE164(req.WhatsAppNumber),
		OwnerEmail:     strings.ToLower(strings.TrimSpace(req.OwnerEmail)),
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.store.Put(r.Context(), record); err != nil {
		h.logger.Error("failed to store business", "error", err, "id", record.ID)
		http.Error(w, "Failed to register business", http.StatusInternalServerError)
		return
	}

	h.logger.Info("business registered", "id", record.ID, "name", record.Name)

	resp := RegisterResponse{Record: record}
	if h.publicBaseURL != "" {
		resp.WidgetURL = fmt.Sprintf("%s/?biz=%s", h.publicBaseURL, record.ID)
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /businesses/{businessID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "businessID")
	if id == "" {
		http.Error(w, "missing business id", http.StatusBadRequest)
		return
	}

	record, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "business not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load business", "error", err, "id", id)
		http.Error(w, "Failed to load business", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
