package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Hard ceiling for MAX_FILE_SIZE, enforced at load time.
const maxFileSizeCeiling = 52428800 // 50 MiB

type Config struct {
	Port  string
	DBUrl string

	// Azure OpenAI Configuration
	AzureOpenAIEndpoint   string
	AzureOpenAIAPIKey     string
	AzureOpenAIDeployment string
	AzureOpenAIAPIVersion string
	AzureOpenAIModel      string

	// LLM Analysis Settings
	LLMTemperature    float64
	LLMMaxTokens      int
	LLMTimeoutSeconds int

	// File Upload Settings
	MaxFileSize       int64
	AllowedExtensions []string
	UploadFolder      string
	ExportFolder      string
}

func LoadConfig() (*Config, error) {
	// Only effective locally; ignored in production when the file is absent.
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		DBUrl: getEnv("DATABASE_URL", ""),

		AzureOpenAIEndpoint:   strings.TrimRight(getEnv("AZURE_OPENAI_ENDPOINT", ""), "/"),
		AzureOpenAIAPIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureOpenAIDeployment: getEnv("AZURE_OPENAI_CHAT_DEPLOYMENT", ""),
		AzureOpenAIAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-12-01-preview"),
		AzureOpenAIModel:      getEnv("AZURE_OPENAI_MODEL", "gpt-4.1"),

		LLMTemperature:    getEnvFloat("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:      getEnvInt("LLM_MAX_TOKENS", 2000),
		LLMTimeoutSeconds: getEnvInt("LLM_TIMEOUT_SECONDS", 60),

		MaxFileSize:       int64(getEnvInt("MAX_FILE_SIZE", 10485760)), // 10 MiB
		AllowedExtensions: splitList(getEnv("ALLOWED_EXTENSIONS", "pdf,docx,txt")),
		UploadFolder:      getEnv("UPLOAD_FOLDER", "./data/uploads"),
		ExportFolder:      getEnv("EXPORT_FOLDER", "./data/exports"),
	}

	if cfg.LLMTemperature < 0 || cfg.LLMTemperature > 1 {
		return nil, fmt.Errorf("LLM_TEMPERATURE must be between 0 and 1, got %v", cfg.LLMTemperature)
	}
	if cfg.MaxFileSize > maxFileSizeCeiling {
		return nil, fmt.Errorf("MAX_FILE_SIZE cannot exceed 50MB (%d bytes)", maxFileSizeCeiling)
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", cfg.MaxFileSize)
	}

	return cfg, nil
}

// EnsureDirectories creates the upload and export folders if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.UploadFolder, c.ExportFolder} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// AllowedExtensionSet returns the allowed extensions as a lookup set,
// lowercased and without leading dots.
func (c *Config) AllowedExtensionSet() map[string]bool {
	set := make(map[string]bool, len(c.AllowedExtensions))
	for _, ext := range c.AllowedExtensions {
		set[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return set
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvFloat returns a float environment variable or fallback if not set/invalid
func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}
