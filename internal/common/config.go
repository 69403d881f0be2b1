package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	OCR       OCRConfig
	Layout    LayoutConfig
	Extractor ExtractorConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// OCRConfig holds token-source configuration
type OCRConfig struct {
	AzureEndpoint string
	AzureAPIKey   string
	EnhanceImages bool
	Language      string
}

// LayoutConfig holds spatial-analysis thresholds. Fractions are relative to
// page dimensions.
type LayoutConfig struct {
	HeaderFraction  float64 // y1 below HeaderFraction*height -> header
	FooterFraction  float64 // y1 above (1-FooterFraction)*height -> footer
	AlignMarginFrac float64
}

// ExtractorConfig holds LLM extractor configuration
type ExtractorConfig struct {
	Provider      string // "groq" | "gemini"
	APIKey        string
	Model         string // empty means the selected provider's own default
	Temperature   float32
	Timeout       time.Duration
	HighThreshold float32 // OCR confidence above which an element counts as high-confidence
	LowThreshold  float32 // OCR confidence below which overall extraction is low
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			RequestTimeout:  getEnvAsDuration("HTTP_REQUEST_TIMEOUT", 2*time.Minute),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OCR: OCRConfig{
			AzureEndpoint: getEnv("AZURE_CV_ENDPOINT", ""),
			AzureAPIKey:   getEnv("AZURE_CV_API_KEY", ""),
			EnhanceImages: getEnvAsBool("OCR_ENHANCE_IMAGES", true),
			Language:      getEnv("OCR_LANGUAGE", "en"),
		},
		Layout: LayoutConfig{
			HeaderFraction:  getEnvAsFloat64("LAYOUT_HEADER_FRACTION", 0.25),
			FooterFraction:  getEnvAsFloat64("LAYOUT_FOOTER_FRACTION", 0.25),
			AlignMarginFrac: getEnvAsFloat64("LAYOUT_ALIGN_MARGIN", 0.03),
		},
		Extractor: ExtractorConfig{
			Provider:      getEnv("EXTRACTOR_PROVIDER", "groq"),
			APIKey:        getEnv("EXTRACTOR_API_KEY", ""),
			Model:         getEnv("EXTRACTOR_MODEL", ""),
			Temperature:   getEnvAsFloat32("EXTRACTOR_TEMPERATURE", 0.1),
			Timeout:       getEnvAsDuration("EXTRACTOR_TIMEOUT", 45*time.Second),
			HighThreshold: getEnvAsFloat32("CONFIDENCE_HIGH_THRESHOLD", 0.85),
			LowThreshold:  getEnvAsFloat32("CONFIDENCE_LOW_THRESHOLD", 0.65),
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
