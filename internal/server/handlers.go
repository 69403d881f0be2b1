// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vendorsync/invoice-ocr/internal/common"
	"github.com/vendorsync/invoice-ocr/internal/invoice"
)

// InvoiceProcessor is the pipeline surface the handlers depend on.
type InvoiceProcessor interface {
	ProcessFile(ctx context.Context, path string) (*invoice.InvoiceRecord, error)
}

// InvoiceHandler handles invoice extraction endpoints.
type InvoiceHandler struct {
	processor InvoiceProcessor
	logger    *zap.Logger
	timeout   time.Duration
}

// NewInvoiceHandler creates an InvoiceHandler. A zero timeout disables the
// per-request deadline.
func NewInvoiceHandler(processor InvoiceProcessor, logger *zap.Logger, timeout time.Duration) *InvoiceHandler {
	return &InvoiceHandler{processor: processor, logger: logger, timeout: timeout}
}

type processRequest struct {
	InvoiceFilePath string `json:"invoice_file_path" binding:"required"`
}

// Process handles POST /api/v1/invoices/process.
func (h *InvoiceHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, code, _ := MapPipelineError(common.ErrInvalidInput)
		RespondError(c, status, code, "invoice_file_path is required")
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = common.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	rec, err := h.processor.ProcessFile(ctx, req.InvoiceFilePath)
	if err != nil {
		status, code, msg := MapPipelineError(err)
		h.logger.Warn("process invoice failed",
			zap.String("path", req.InvoiceFilePath),
			zap.String("code", code),
			zap.Error(err),
		)
		RespondError(c, status, code, msg)
		return
	}
	RespondOK(c, rec)
}

// HealthHandler handles health check endpoints.
type HealthHandler struct{}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
