package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL   string
	MigrationsDir string

	// Redis (optional)
	RedisURL string

	// JWT
	JWTSecret string

	// LLM
	LLMProvider           string
	OpenAIAPIKey          string
	OpenAIBaseURL         string
	OpenAIModel           string
	GeminiAPIKey          string
	GeminiModel           string
	LLMConcurrentReqs     int
	LLMTimeoutSeconds     int
	GenerateRatePerMinute int

	// Uploads
	MaxUploadMB int

	// Explain cache
	ExplainCacheTTLMinutes int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                   getEnvOrDefault("PORT", "8080"),
		Env:                    getEnvOrDefault("ENV", "development"),
		DatabaseURL:            mustGetEnv("DATABASE_URL"),
		MigrationsDir:          getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		RedisURL:               getEnvOrDefault("REDIS_URL", ""),
		JWTSecret:              mustGetEnv("JWT_SECRET"),
		LLMProvider:            strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderOpenAI)),
		OpenAIBaseURL:          getEnvOrDefault("OPENAI_BASE_URL", "https://api.groq.com/openai/v1"),
		OpenAIModel:            getEnvOrDefault("OPENAI_MODEL", "llama-3.3-70b-versatile"),
		GeminiModel:            getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMConcurrentReqs:      getEnvAsIntOrDefault("LLM_CONCURRENT_REQUESTS", 5),
		LLMTimeoutSeconds:      getEnvAsIntOrDefault("LLM_TIMEOUT_SECONDS", 60),
		GenerateRatePerMinute:  getEnvAsIntOrDefault("GENERATE_RATE_LIMIT_PER_MINUTE", 10),
		MaxUploadMB:            getEnvAsIntOrDefault("MAX_UPLOAD_MB", 10),
		ExplainCacheTTLMinutes: getEnvAsIntOrDefault("EXPLAIN_CACHE_TTL_MINUTES", 60),
		FrontendURL:            getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	switch cfg.LLMProvider {
	case ProviderGemini:
		cfg.GeminiAPIKey = mustGetEnv("GEMINI_API_KEY")
	case ProviderOpenAI:
		cfg.OpenAIAPIKey = mustGetEnv("OPENAI_API_KEY")
	default:
		panic(fmt.Sprintf("unknown LLM_PROVIDER %q (want %q or %q)", cfg.LLMProvider, ProviderOpenAI, ProviderGemini))
	}

	return cfg
}

// MaxUploadBytes is the request body cap for generation uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
