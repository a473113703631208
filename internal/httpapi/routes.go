// Package httpapi serves the estimator over HTTP with gin.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/bbox-estimator/internal/estimator"
)

// ServiceName is reported by the health check.
const ServiceName = "bbox-estimator"

// Config holds the HTTP-facing settings.
type Config struct {
	MaxFileSize int64
	ImageRoot   string
}

// SetupRoutes registers the estimate and health endpoints on r.
func SetupRoutes(r *gin.Engine, est *estimator.Estimator, config *Config) {
	annotate := r.Group("/annotate")
	{
		annotate.POST("/estimate-bbox", func(c *gin.Context) { HandleEstimate(c, est, config) })
	}

	r.GET("/health", HandleHealth)
}

// HandleHealth reports that the service is up.
func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
	})
}
