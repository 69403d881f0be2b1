package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vendorsync/invoice-ocr/internal/common"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapPipelineError translates pipeline errors to HTTP status codes. An
// undecodable image is the caller's fault; malformed extractor output is an
// upstream failure.
func MapPipelineError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, common.ErrImageDecode):
		return http.StatusBadRequest, "IMAGE_DECODE_FAILED", "input could not be decoded as an image"
	case errors.Is(err, common.ErrExtractorFormat):
		return http.StatusBadGateway, "EXTRACTOR_MALFORMED_OUTPUT", "extractor returned unparseable output"
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT", "invalid request"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT", "processing timed out"
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}
