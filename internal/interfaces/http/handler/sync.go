package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	syncapp "github.com/noltshop/backend/internal/application/sync"
	"github.com/noltshop/backend/internal/interfaces/http/dto"
)

// SyncTrigger runs reconciliation passes and keeps their reports
type SyncTrigger interface {
	TriggerNow(ctx context.Context) *syncapp.Report
	History() []*syncapp.Report
	LastReport() *syncapp.Report
}

// SyncHandler handles manual catalog sync endpoints
type SyncHandler struct {
	BaseHandler
	trigger SyncTrigger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(trigger SyncTrigger) *SyncHandler {
	return &SyncHandler{trigger: trigger}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/trigger", h.Trigger)
		sync.GET("/reports", h.Reports)
		sync.GET("/reports/latest", h.LatestReport)
	}
}

// Trigger runs a reconciliation pass and returns its report. A pass that
// lost the single-flight race is reported as a conflict.
func (h *SyncHandler) Trigger(c *gin.Context) {
	report := h.trigger.TriggerNow(c.Request.Context())

	if report.Status == syncapp.StatusFailed && report.Error == syncapp.ErrSyncAlreadyRunning.Error() {
		h.Conflict(c, dto.ErrCodeSyncRunning, report.Error)
		return
	}

	h.Success(c, report)
}

// Reports returns the retained sync reports, most recent first
func (h *SyncHandler) Reports(c *gin.Context) {
	h.Success(c, h.trigger.History())
}

// LatestReport returns the most recent sync report
func (h *SyncHandler) LatestReport(c *gin.Context) {
	report := h.trigger.LastReport()
	if report == nil {
		h.NotFound(c, "No sync has run yet")
		return
	}
	h.Success(c, report)
}
