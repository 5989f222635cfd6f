// internal/handler/health.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phone-assistant/internal/catalog"
)

// HealthHandler reports process liveness and catalog readiness.
type HealthHandler struct {
	store   *catalog.Store
	version string
}

func NewHealthHandler(store *catalog.Store, version string) *HealthHandler {
	return &HealthHandler{store: store, version: version}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"phones":  h.store.Len(),
	})
}
