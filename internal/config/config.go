package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string
	PublicURL   string

	// Directories
	InputDir  string // durable "past" corpus PDFs
	NewPDFDir string // currently uploaded document under analysis
	OutputDir string // JSON document stores
	AudioDir  string // generated podcast audio

	// Upload limits
	MaxFileSize int64

	// Gemini / embeddings
	GeminiAPIKey    string
	GeminiModel     string
	EmbeddingsModel string
	GeminiTier      string

	// Extraction heuristics
	MinHeadingLength  int
	MaxHeadingWords   int
	MinFontSize       float64
	TitleYThreshold   float64
	MaxSnippets       int
	SectionContentCap int
	PageChunkFallback bool

	// Search
	DefaultTopK     int
	DefaultMinScore float64
	MinSimilarity   float64
	SingleBestMatch bool

	// Text-to-speech service
	TTSServiceURL string
	TTSAPIKey     string
	TTSLanguage   string
	TTSTimeout    int

	// Redis (optional: embedding cache + rate limiting)
	RedisURL        string
	RedisPassword   string
	RedisDB         int
	EmbedCacheTTL   int // seconds
	RateLimitReqs   int
	RateLimitWindow int // seconds

	// Housekeeping
	CleanupInterval int // minutes
	AudioMaxAge     int // minutes

	// Telemetry
	TracingEnabled bool
	OTLPEndpoint   string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
		PublicURL:   getEnv("PUBLIC_URL", "http://localhost:8080"),

		InputDir:  getEnv("INPUT_DIR", "input"),
		NewPDFDir: getEnv("NEWPDF_DIR", "newpdf"),
		OutputDir: getEnv("OUTPUT_DIR", "output"),
		AudioDir:  getEnv("AUDIO_DIR", "static/audio"),

		MaxFileSize: getEnvInt64("MAX_FILE_SIZE", 104857600), // 100MB

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		EmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),
		GeminiTier:      getEnv("GEMINI_TIER", "free"),

		MinHeadingLength:  getEnvInt("MIN_HEADING_LENGTH", 4),
		MaxHeadingWords:   getEnvInt("MAX_HEADING_WORDS", 20),
		MinFontSize:       getEnvFloat64("MIN_FONT_SIZE", 10),
		TitleYThreshold:   getEnvFloat64("TITLE_Y_THRESHOLD", 200),
		MaxSnippets:       getEnvInt("MAX_SNIPPETS", 3),
		SectionContentCap: getEnvInt("SECTION_CONTENT_CAP", 500),
		PageChunkFallback: getEnvBool("PAGE_CHUNK_FALLBACK", false),

		DefaultTopK:     getEnvInt("SEARCH_TOP_K", 3),
		DefaultMinScore: getEnvFloat64("SEARCH_MIN_SCORE", 0.3),
		MinSimilarity:   getEnvFloat64("MIN_SIMILARITY", 0.3),
		SingleBestMatch: getEnvBool("SINGLE_BEST_MATCH", false),

		TTSServiceURL: getEnv("TTS_SERVICE_URL", "https://api.sarvam.ai"),
		TTSAPIKey:     getEnv("TTS_API_KEY", ""),
		TTSLanguage:   getEnv("TTS_LANGUAGE", "hi-IN"),
		TTSTimeout:    getEnvInt("TTS_TIMEOUT", 120),

		RedisURL:        getEnv("REDIS_URL", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		EmbedCacheTTL:   getEnvInt("EMBED_CACHE_TTL", 86400),
		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		CleanupInterval: getEnvInt("CLEANUP_INTERVAL_MINUTES", 30),
		AudioMaxAge:     getEnvInt("AUDIO_MAX_AGE_MINUTES", 120),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	// Validate required fields
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required - set it in .env file")
	}

	return cfg, nil
}

// PastStorePath is the JSON store holding the durable corpus.
func (c *Config) PastStorePath() string {
	return filepath.Join(c.OutputDir, "output.json")
}

// CurrentStorePath is the JSON store holding the document under analysis.
func (c *Config) CurrentStorePath() string {
	return filepath.Join(c.OutputDir, "current_doc.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
