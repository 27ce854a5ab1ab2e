package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/microcredit/backend/internal/application/report"
	"go.uber.org/zap"
)

// ReportHandler handles dashboard reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *report.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *report.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// Summary returns the dashboard summary for a period
// GET /api/v1/reports/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	var query report.SummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.reportService.Summary(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
