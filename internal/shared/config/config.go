package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string
	AutoMigrate bool

	// Gateway
	WhatsAppProvider   string
	ZAPIBaseURL        string
	ZAPIInstanceID     string
	ZAPIToken          string
	ZAPIClientToken    string
	GreenAPIURL        string
	GreenAPIInstanceID string
	GreenAPIToken      string
	GatewayTimeout     time.Duration

	// LLM / AI responder
	LLMProvider       string
	OpenAIKey         string
	GroqKey           string
	DeepSeekKey       string
	LLMModel          string
	LLMTemperature    float64
	LLMMaxTokens      int
	AIHistoryLimit    int
	AITimeout         time.Duration
	AIFallbackMessage string
	AIReopenGreeting  string
	BusinessName      string
	BusinessTone      string
	AIInstructions    string

	// Humanized delay
	DelayMinSeconds      float64
	DelayMaxSeconds      float64
	DelaySeconds         float64
	DelayMaxBoundSeconds float64

	// Media storage
	StorageProvider      string
	UploadDir            string
	PublicBaseURL        string
	AWSAccessKeyID       string
	AWSSecretAccessKey   string
	AWSRegion            string
	AWSS3Bucket          string
	CloudinaryCloudName  string
	CloudinaryAPIKey     string
	CloudinaryAPISecret  string
	MediaMaxBytes        int64
	MediaDownloadTimeout time.Duration

	// Intent webhooks
	WebhookLeadCaptureURL string
	WebhookAppointmentURL string
	WebhookHandoffURL     string
	WebhookSupportURL     string
	WebhookTimeout        time.Duration
	WebhookWorkers        int
	WebhookQueueSize      int
	WebhookMaxRetries     int

	// Pipeline
	ConversationInitialStatus string
	PipelineTimeout           time.Duration

	// Housekeeping
	AuditRetentionDays int
	CleanupSchedule    string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AutoMigrate: getBool("AUTO_MIGRATE", false),

		WhatsAppProvider:   getEnv("WHATSAPP_PROVIDER", "zapi"),
		ZAPIBaseURL:        getEnv("ZAPI_BASE_URL", "https://api.z-api.io"),
		ZAPIInstanceID:     os.Getenv("ZAPI_INSTANCE_ID"),
		ZAPIToken:          os.Getenv("ZAPI_TOKEN"),
		ZAPIClientToken:    os.Getenv("ZAPI_CLIENT_TOKEN"),
		GreenAPIURL:        getEnv("GREEN_API_URL", "https://api.green-api.com"),
		GreenAPIInstanceID: os.Getenv("GREEN_API_INSTANCE_ID"),
		GreenAPIToken:      os.Getenv("GREEN_API_TOKEN"),
		GatewayTimeout:     getDuration("GATEWAY_TIMEOUT", 30*time.Second),

		LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		GroqKey:           os.Getenv("GROQ_API_KEY"),
		DeepSeekKey:       os.Getenv("DEEPSEEK_API_KEY"),
		LLMModel:          os.Getenv("LLM_MODEL"),
		LLMTemperature:    getFloat("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:      getInt("LLM_MAX_TOKENS", 512),
		AIHistoryLimit:    getInt("AI_HISTORY_LIMIT", 10),
		AITimeout:         getDuration("AI_TIMEOUT", 30*time.Second),
		AIFallbackMessage: getEnv("AI_FALLBACK_MESSAGE", "Desculpe, estou com uma instabilidade no momento. Um atendente vai te responder em breve."),
		AIReopenGreeting:  getEnv("AI_REOPEN_GREETING", "Olá de novo! Que bom te ver por aqui. Como posso ajudar?"),
		BusinessName:      getEnv("BUSINESS_NAME", "nossa empresa"),
		BusinessTone:      getEnv("BUSINESS_TONE", "amigável e profissional"),
		AIInstructions:    os.Getenv("AI_INSTRUCTIONS"),

		DelayMinSeconds:      getFloat("DELAY_MIN_SECONDS", 0),
		DelayMaxSeconds:      getFloat("DELAY_MAX_SECONDS", 0),
		DelaySeconds:         getFloat("DELAY_SECONDS", 0),
		DelayMaxBoundSeconds: getFloat("DELAY_MAX_BOUND_SECONDS", 30),

		StorageProvider:      getEnv("STORAGE_PROVIDER", "local"),
		UploadDir:            getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:        getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		AWSAccessKeyID:       os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:          os.Getenv("AWS_S3_BUCKET"),
		CloudinaryCloudName:  os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:     os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:  os.Getenv("CLOUDINARY_API_SECRET"),
		MediaMaxBytes:        int64(getInt("MEDIA_MAX_BYTES", 25*1024*1024)),
		MediaDownloadTimeout: getDuration("MEDIA_DOWNLOAD_TIMEOUT", 30*time.Second),

		WebhookLeadCaptureURL: os.Getenv("WEBHOOK_LEAD_CAPTURE_URL"),
		WebhookAppointmentURL: os.Getenv("WEBHOOK_APPOINTMENT_URL"),
		WebhookHandoffURL:     os.Getenv("WEBHOOK_HANDOFF_URL"),
		WebhookSupportURL:     os.Getenv("WEBHOOK_SUPPORT_URL"),
		WebhookTimeout:        getDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookWorkers:        getInt("WEBHOOK_WORKERS", 4),
		WebhookQueueSize:      getInt("WEBHOOK_QUEUE_SIZE", 256),
		WebhookMaxRetries:     getInt("WEBHOOK_MAX_RETRIES", 0),

		ConversationInitialStatus: getEnv("CONVERSATION_INITIAL_STATUS", "ai_active"),
		PipelineTimeout:           getDuration("PIPELINE_TIMEOUT", 120*time.Second),

		AuditRetentionDays: getInt("AUDIT_RETENTION_DAYS", 30),
		CleanupSchedule:    getEnv("CLEANUP_SCHEDULE", "0 0 3 * * *"),
	}

	if cfg.DatabaseURL == "" && cfg.Env == "development" {
		cfg.DatabaseURL = "sqlite://inbox.db"
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid number, using default")
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getDuration accepts Go durations ("5s") or plain seconds ("5").
func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 && !math.IsInf(secs, 0) {
		return time.Duration(secs * float64(time.Second))
	}
	log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
	return fallback
}
