package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// PublicBaseURL is where the mic widget is served; used to build the
	// widget link returned on business registration.
	PublicBaseURL string

	// Groq (OpenAI-compatible) endpoints for chat, Whisper STT and TTS.
	GroqAPIKey   string
	GroqBaseURL  string
	ChatModel    string
	WhisperModel string
	TTSModel     string
	TTSVoice     string

	// ffmpeg binary used to transcode browser audio into WAV.
	FFmpegPath       string
	TranscodeTimeout time.Duration

	// WhatsApp deep-link base for dispatched leads.
	WhatsAppBaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	DatabaseURL string

	// SendGrid email configuration for lead notifications.
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:  getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		ChatModel:    getEnv("CHAT_MODEL", "llama-3.1-8b-instant"),
		WhisperModel: getEnv("WHISPER_MODEL", "whisper-large-v3"),
		TTSModel:     getEnv("TTS_MODEL", "playai-tts"),
		TTSVoice:     getEnv("TTS_VOICE", "Fritz-PlayAI"),

		FFmpegPath:       getEnv("FFMPEG_PATH", "ffmpeg"),
		TranscodeTimeout: getEnvAsDuration("TRANSCODE_TIMEOUT", 15*time.Second),

		WhatsAppBaseURL: getEnv("WHATSAPP_BASE_URL", "https://wa.me"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "VoiceDesk"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
