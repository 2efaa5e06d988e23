package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/voicedesk/voicedesk/internal/conversation"
	"github.com/voicedesk/voicedesk/internal/directory"
	httpmiddleware "github.com/voicedesk/voicedesk/internal/http/middleware"
	"github.com/voicedesk/voicedesk/internal/lead"
	"github.com/voicedesk/voicedesk/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	DirectoryHandler   *directory.Handler
	SessionHandler     *conversation.Handler
	LeadsHandler       *lead.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/businesses", func(r chi.Router) {
		r.Post("/", cfg.DirectoryHandler.Register)
		r.Route("/{businessID}", func(r chi.Router) {
			r.Get("/", cfg.DirectoryHandler.Get)
			if cfg.LeadsHandler != nil {
				r.Get("/leads", cfg.LeadsHandler.ListByBusiness)
			}
		})
	})

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Post("/input", cfg.SessionHandler.SubmitInput)
		r.Post("/reset", cfg.SessionHandler.Reset)
		r.Get("/", cfg.SessionHandler.GetSession)
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","service":"voicedesk"}`))
}
