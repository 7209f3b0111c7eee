package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	Environment string

	// Speech provider limits enforced before any provider call.
	SpeechMaxDurationMs   int64
	SpeechMaxSizeBytes    int64
	SpeechDefaultTimeout  time.Duration
	SpeechProviderEnabled bool

	// Rubric evaluation provider.
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	Events EventConfig
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine outside development; the environment wins.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		Environment: getEnv("ENVIRONMENT", "development"),

		SpeechMaxDurationMs:   getEnvInt64("SPEECH_MAX_DURATION_MS", 120_000),
		SpeechMaxSizeBytes:    getEnvInt64("SPEECH_MAX_SIZE_BYTES", 10*1024*1024),
		SpeechDefaultTimeout:  getEnvDuration("SPEECH_DEFAULT_TIMEOUT", 30*time.Second),
		SpeechProviderEnabled: getEnvBool("SPEECH_PROVIDER_ENABLED", false),

		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		Events: EventConfig{
			Enabled:        getEnvBool("EVENTS_ENABLED", false),
			Publisher:      getEnv("EVENTS_PUBLISHER", "kafka"),
			KafkaBrokers:   getEnv("KAFKA_BROKERS", "localhost:9092"),
			RetentionTopic: getEnv("RETENTION_TOPIC", "retention-events"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
