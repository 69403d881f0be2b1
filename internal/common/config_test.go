package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigExtractorDefaults(t *testing.T) {
	t.Setenv("EXTRACTOR_PROVIDER", "")
	t.Setenv("EXTRACTOR_MODEL", "")

	cfg := LoadConfig()

	assert.Equal(t, "groq", cfg.Extractor.Provider)
	// No global model default: each provider client applies its own.
	assert.Empty(t, cfg.Extractor.Model)
	assert.Equal(t, float32(0.85), cfg.Extractor.HighThreshold)
	assert.Equal(t, float32(0.65), cfg.Extractor.LowThreshold)
	assert.Equal(t, 45*time.Second, cfg.Extractor.Timeout)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("EXTRACTOR_MODEL", "gemini-2.0-flash")
	t.Setenv("CONFIDENCE_HIGH_THRESHOLD", "0.9")

	cfg := LoadConfig()

	assert.Equal(t, "gemini-2.0-flash", cfg.Extractor.Model)
	assert.Equal(t, float32(0.9), cfg.Extractor.HighThreshold)
}
