package common

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := NewAppError("OCR_FAILED", "recognize failed", ErrImageDecode)

	assert.Contains(t, err.Error(), "OCR_FAILED")
	assert.True(t, errors.Is(err, ErrImageDecode))
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "context"))

	err := WrapError(ErrExtractorFormat, "decode groq response")
	assert.True(t, errors.Is(err, ErrExtractorFormat))
	assert.Contains(t, err.Error(), "decode groq response")
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
}
