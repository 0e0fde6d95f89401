package handler

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// CheckFunc reports whether a backing dependency is reachable.
type CheckFunc func(ctx context.Context) error

// AddCheck registers a dependency probe reported by /health.
func (h *Handler) AddCheck(name string, check CheckFunc) {
	if h.checks == nil {
		h.checks = make(map[string]CheckFunc)
	}
	h.checks[name] = check
}

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service and each registered dependency
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	if len(h.checks) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		return
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "healthy", http.StatusOK
	deps := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](c.Request.Context()); err != nil {
			deps[name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}
	c.JSON(code, gin.H{"status": status, "dependencies": deps})
}
