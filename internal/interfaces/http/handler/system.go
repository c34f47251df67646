package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves service metadata endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name string) *SystemHandler {
	return &SystemHandler{
		name:      name,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers the system endpoints
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health reports basic liveness information
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"name":       h.name,
		"version":    "1.0.0",
		"go_version": runtime.Version(),
		"uptime":     time.Since(h.startTime).String(),
	})
}
