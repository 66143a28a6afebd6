package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/studypack")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OPENAI_API_KEY", "gsk_test")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("MAX_UPLOAD_MB", "")

	cfg := Load()

	if cfg.LLMProvider != ProviderOpenAI {
		t.Errorf("Expected provider %q, got %q", ProviderOpenAI, cfg.LLMProvider)
	}
	if cfg.OpenAIBaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("Unexpected base URL %q", cfg.OpenAIBaseURL)
	}
	if cfg.OpenAIAPIKey != "gsk_test" {
		t.Errorf("Expected API key to be loaded, got %q", cfg.OpenAIAPIKey)
	}
	if cfg.MaxUploadBytes() != 10<<20 {
		t.Errorf("Expected 10MB upload cap, got %d", cfg.MaxUploadBytes())
	}
}

func TestLoad_GeminiRequiresKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/studypack")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when GEMINI_API_KEY is missing")
		}
	}()

	Load()
}

func TestLoad_UnknownProviderPanics(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/studypack")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LLM_PROVIDER", "claude")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for unknown provider")
		}
	}()

	Load()
}
