package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorsync/invoice-ocr/internal/common"
	"github.com/vendorsync/invoice-ocr/internal/llm"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{}, nil)
	require.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient(context.Background(), Config{APIKey: "test-key"}, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "gemini-2.5-pro", c.cfg.Model)
	assert.Equal(t, "application/json", c.model.ResponseMIMEType)
}

func TestNewClientExplicitModel(t *testing.T) {
	c, err := NewClient(context.Background(), Config{APIKey: "test-key", Model: "gemini-2.0-flash"}, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "gemini-2.0-flash", c.cfg.Model)
}

// The factory must not impose another provider's model name; with no
// EXTRACTOR_MODEL set, the client's own default applies.
func TestFactoryLeavesModelToClient(t *testing.T) {
	ext, err := llm.NewExtractor(context.Background(), common.ExtractorConfig{
		Provider: "gemini",
		APIKey:   "test-key",
	}, nil)
	require.NoError(t, err)

	c, ok := ext.(*Client)
	require.True(t, ok)
	defer c.Close()
	assert.Equal(t, "gemini-2.5-pro", c.cfg.Model)
}
