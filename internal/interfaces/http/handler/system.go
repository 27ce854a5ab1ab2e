package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcredit/backend/internal/infrastructure/persistence"
	"github.com/microcredit/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	appName string
	version string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *persistence.Database, appName, version string, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(logger),
		db:          db,
		appName:     appName,
		version:     version,
	}
}

// HealthStatus is the health endpoint payload
type HealthStatus struct {
	Status    string    `json:"status"`
	App       string    `json:"app"`
	Version   string    `json:"version"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// Health reports service and database health
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	status := HealthStatus{
		Status:    "ok",
		App:       h.appName,
		Version:   h.version,
		Database:  "ok",
		Timestamp: time.Now().UTC(),
	}

	if err := h.db.Ping(); err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(status))
		return
	}

	h.Success(c, status)
}

// Ready reports whether the service can take traffic
// GET /ready
func (h *SystemHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("NOT_READY", "Database is unreachable"))
		return
	}

	h.Success(c, gin.H{"status": "ready"})
}
