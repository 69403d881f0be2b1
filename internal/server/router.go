package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(invoiceH *InvoiceHandler, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(Recovery())
	r.Use(RequestID())
	r.Use(Logger(logger))

	healthH := &HealthHandler{}
	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")
	invoices := v1.Group("/invoices")
	invoices.POST("/process", invoiceH.Process)

	return r
}
