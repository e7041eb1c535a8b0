package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Extract  ExtractConfig
	ReadTime ReadTimeConfig
	LLM      LLMConfig
	Analysis AnalysisConfig
}

// ExtractConfig holds PDF extraction configuration
type ExtractConfig struct {
	// TextPages selects how much text is extracted: "first" (default) keeps
	// only the first page to bound LLM token cost, "full" extracts everything.
	TextPages       string
	DownloadTimeout time.Duration
	MaxDownloadMB   int64
	TOCEnabled      bool
	TOCMaxPages     int
	TOCMaxChars     int
}

// ReadTimeConfig holds reading-time estimator configuration
type ReadTimeConfig struct {
	Mode            string // "accurate" or "fast"
	MaxPages        int    // above this, accurate mode is forced to fast
	PerImageSeconds [2]int // low/high bounds of seconds charged per image
}

// LLMConfig holds provider credentials and router behavior
type LLMConfig struct {
	GeminiAPIKey     string
	GeminiModel      string
	PerplexityAPIKey string
	PerplexityModel  string
	GigaChatAuthKey  string
	GigaChatScope    string
	GigaChatModel    string

	Timeout      time.Duration
	MaxRetries   int
	ProvidersRPS float64
	// ProvidersFile optionally points to a YAML manifest overriding the
	// env-derived provider order.
	ProvidersFile string
}

// AnalysisConfig holds orchestrator behavior flags
type AnalysisConfig struct {
	// FilenameCategoryHints enables the keyword-on-filename category guess in
	// the heuristic fallback.
	FilenameCategoryHints bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			TextPages:       getEnv("PDF_TEXT_PAGES", "first"),
			DownloadTimeout: getEnvAsDuration("PDF_DOWNLOAD_TIMEOUT", 20*time.Second),
			MaxDownloadMB:   int64(getEnvAsInt("PDF_MAX_DOWNLOAD_MB", 100)),
			TOCEnabled:      getEnvAsBool("PDF_TOC_ENABLED", true),
			TOCMaxPages:     getEnvAsInt("PDF_TOC_MAX_PAGES", 10),
			TOCMaxChars:     getEnvAsInt("PDF_TOC_MAX_CHARS", 2000),
		},
		ReadTime: ReadTimeConfig{
			Mode:            getEnv("READTIME_MODE", "accurate"),
			MaxPages:        getEnvAsInt("READTIME_MAX_PAGES", 200),
			PerImageSeconds: getEnvAsSecondsPair("READTIME_PER_IMAGE_SECONDS", [2]int{3, 10}),
		},
		LLM: LLMConfig{
			GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
			GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
			PerplexityAPIKey: firstEnv("PERPLEXITYAI_API_KEY", "PERPLEXITY_API_KEY"),
			PerplexityModel:  getEnv("PERPLEXITY_MODEL", "sonar"),
			GigaChatAuthKey:  getEnv("GIGACHAT_AUTH_KEY", ""),
			GigaChatScope:    getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			GigaChatModel:    getEnv("GIGACHAT_MODEL", "GigaChat-2"),
			Timeout:          getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
			MaxRetries:       getEnvAsInt("LLM_MAX_RETRIES", 3),
			ProvidersRPS:     getEnvAsFloat64("LLM_PROVIDERS_RPS", 2),
			ProvidersFile:    getEnv("LLM_PROVIDERS_FILE", ""),
		},
		Analysis: AnalysisConfig{
			FilenameCategoryHints: getEnvAsBool("ANALYSIS_FILENAME_HINTS", true),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsSecondsPair parses "low,high" per-image second bounds.
func getEnvAsSecondsPair(key string, defaultValue [2]int) [2]int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return defaultValue
	}
	lo, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return defaultValue
	}
	if lo < 0 {
		lo = 0
	}
	if hi < 0 {
		hi = 0
	}
	return [2]int{lo, hi}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.ReadTime.Mode {
	case "accurate", "fast":
	default:
		return NewAppError("CONFIG_ERROR", "READTIME_MODE must be accurate or fast", ErrInvalidInput)
	}
	switch c.Extract.TextPages {
	case "first", "full":
	default:
		return NewAppError("CONFIG_ERROR", "PDF_TEXT_PAGES must be first or full", ErrInvalidInput)
	}
	if c.ReadTime.MaxPages <= 0 {
		return NewAppError("CONFIG_ERROR", "READTIME_MAX_PAGES must be positive", ErrInvalidInput)
	}
	return nil
}
