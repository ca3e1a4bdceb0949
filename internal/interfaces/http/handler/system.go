package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler handles service health and info endpoints
type SystemHandler struct {
	BaseHandler
	appName   string
	version   string
	startedAt time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(appName, version string) *SystemHandler {
	return &SystemHandler{
		appName:   appName,
		version:   version,
		startedAt: time.Now(),
	}
}

// Ping answers a liveness probe
// @Summary Ping
// @Tags system
// @Produce json
// @Success 200 {object} dto.Response
// @Router /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{
		"message":   "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetSystemInfo returns build and runtime information
// @Summary System info
// @Tags system
// @Produce json
// @Success 200 {object} dto.Response
// @Router /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, gin.H{
		"name":       h.appName,
		"version":    h.version,
		"go_version": runtime.Version(),
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
	})
}
