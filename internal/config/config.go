package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string
	Version  string

	MaxUploadBytes int64

	LLMBaseURL        string
	LLMModel          string
	LLMMaxTokens      int
	LLMTimeoutSeconds int
	LLMReferer        string
	LLMTitle          string

	OutputPrefix string
	OutputDir    string

	// DefaultAPIKey is the form front end's fallback credential. The HTTP
	// front end always takes the key from the request.
	DefaultAPIKey string
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),
		Version:  mustEnv("APP_VERSION", "1.0.0"),

		MaxUploadBytes: mustEnvInt64("MAX_UPLOAD_BYTES", 16<<20),

		LLMBaseURL:        mustEnv("OPENROUTER_URL", "https://openrouter.ai/api/v1"),
		LLMModel:          mustEnv("LLM_MODEL", "openrouter/auto"),
		LLMMaxTokens:      mustEnvInt("LLM_MAX_TOKENS", 512),
		LLMTimeoutSeconds: mustEnvInt("LLM_TIMEOUT_SECONDS", 90),
		LLMReferer:        mustEnv("LLM_HTTP_REFERER", "glr-docfill"),
		LLMTitle:          mustEnv("LLM_X_TITLE", "Insurance GLR Pipeline"),

		OutputPrefix: mustEnv("OUTPUT_FILENAME_PREFIX", "filled_insurance_template"),
		OutputDir:    mustEnv("OUTPUT_DIR", "."),

		DefaultAPIKey: os.Getenv("OPENROUTER_API_KEY"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
