package config

import "os"

// Config holds the application configuration
// Note: auth, billing and user management are handled by the beatsync-cloud
// gateway; this service only needs its own runtime knobs.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Persistence (optional; charts are not stored when unset)
	DatabaseURL string

	// LLM API keys for the experimental LLM chart strategy
	OpenAIAPIKey string // OpenAI API key for GPT models
	GeminiAPIKey string // Google Gemini API key

	// Default model for the LLM strategy
	LLMModel string

	// When set, requests without an explicit strategy use the LLM strategy
	UseAIGeneration bool

	// Observability
	SentryDSN string // Sentry DSN for error tracking
}

func Load() *Config {
	return &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		LLMModel:        getEnv("LLM_MODEL", "gpt-5-mini"),
		UseAIGeneration: getEnv("USE_AI_GENERATION", "false") == "true",
		SentryDSN:       getEnv("SENTRY_DSN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
