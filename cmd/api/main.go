package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"github.com/voicedesk/voicedesk/internal/api/router"
	appconfig "github.com/voicedesk/voicedesk/internal/config"
	"github.com/voicedesk/voicedesk/internal/conversation"
	"github.com/voicedesk/voicedesk/internal/directory"
	"github.com/voicedesk/voicedesk/internal/lead"
	"github.com/voicedesk/voicedesk/internal/notify"
	"github.com/voicedesk/voicedesk/internal/observability/metrics"
	"github.com/voicedesk/voicedesk/internal/speech"
	"github.com/voicedesk/voicedesk/pkg/logging"
)

func main() {
	// Load .env in development; ignore absence in production.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting voicedesk API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.GroqAPIKey == "" {
		logger.Error("GROQ_API_KEY is required")
		os.Exit(1)
	}

	// One OpenAI-compatible client serves chat, Whisper STT and TTS against
	// the Groq endpoint.
	groqCfg := openai.DefaultConfig(cfg.GroqAPIKey)
	groqCfg.BaseURL = cfg.GroqBaseURL
	groqClient := openai.NewClientWithConfig(groqCfg)

	// Stores: Redis when configured, in-memory otherwise.
	var (
		businessStore directory.Store
		stateStore    conversation.StateStore
	)
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		businessStore = directory.NewRedisStore(rdb)
		stateStore = conversation.NewRedisStateStore(rdb, cfg.SessionTTL)
		logger.Info("using redis stores", "addr", cfg.RedisAddr, "session_ttl", cfg.SessionTTL)
	} else {
		businessStore = directory.NewMemoryStore()
		stateStore = conversation.NewMemoryStateStore()
		logger.Warn("REDIS_ADDR not set, using in-memory stores")
	}

	// Lead repository: Postgres when configured, in-memory otherwise.
	var leadRepo lead.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadRepo = lead.NewPostgresRepository(pool)
		logger.Info("using postgres lead repository")
	} else {
		leadRepo = lead.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory lead repository")
	}

	// Lead notification email is optional.
	var notifier *notify.LeadNotifier
	if cfg.SendGridAPIKey != "" {
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		notifier = notify.NewLeadNotifier(sender, logger)
	}

	sessionMetrics := metrics.NewSessionMetrics(prometheus.DefaultRegisterer)

	engine := conversation.NewEngine(conversation.EngineConfig{
		Directory:    businessStore,
		States:       stateStore,
		Transcoder:   speech.NewFFmpegTranscoder(cfg.FFmpegPath, cfg.TranscodeTimeout, logger),
		Transcriber:  speech.NewWhisperTranscriber(groqClient, cfg.WhisperModel),
		LLM:          conversation.NewGroqClient(groqClient, cfg.ChatModel, logger),
		Synthesizer:  speech.NewTTSSynthesizer(groqClient, cfg.TTSModel, cfg.TTSVoice),
		Leads:        leadRepo,
		Notifier:     notifier,
		Metrics:      sessionMetrics,
		Logger:       logger,
		WhatsAppBase: cfg.WhatsAppBaseURL,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		DirectoryHandler:   directory.NewHandler(businessStore, cfg.PublicBaseURL, logger),
		SessionHandler:     conversation.NewHandler(engine, logger),
		LeadsHandler:       lead.NewHandler(leadRepo, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
