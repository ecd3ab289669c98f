package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	reportingapp "github.com/finbooks/backend/internal/application/reporting"
	"github.com/finbooks/backend/internal/infrastructure/telemetry"
	"github.com/finbooks/backend/internal/interfaces/http/dto"
)

// ReportHandler handles the statutory report endpoints
type ReportHandler struct {
	BaseHandler
	service *reportingapp.ReportService
	metrics *telemetry.BusinessMetrics
}

// NewReportHandler creates a new ReportHandler. Metrics are optional.
func NewReportHandler(service *reportingapp.ReportService, metrics *telemetry.BusinessMetrics) *ReportHandler {
	return &ReportHandler{service: service, metrics: metrics}
}

// RegisterRoutes registers report routes on the given group
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/outward-supply", h.OutwardSupply)
		reports.GET("/outward-supply/export", h.ExportOutwardSupply)
		reports.GET("/summary-return", h.SummaryReturn)
		reports.GET("/summary-return/export", h.ExportSummaryReturn)
		reports.GET("/hsn-summary", h.HSNSummary)
		reports.GET("/hsn-summary/export", h.ExportHSNSummary)
	}
}

// outwardSupplyQuery optionally pages the B2B invoice list for display.
// Totals always reflect the full period regardless of the page.
type outwardSupplyQuery struct {
	Period   string `form:"period" binding:"required"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// OutwardSupply builds the outward-supply return for a period
func (h *ReportHandler) OutwardSupply(c *gin.Context) {
	var query outwardSupplyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeMissingField, "period query parameter is required")
		return
	}

	start := time.Now()
	report, err := h.service.OutwardSupplyReport(c.Request.Context(), query.Period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if query.PageSize > 0 {
		page := query.Page
		if page <= 0 {
			page = 1
		}
		report.B2BInvoices = pageSlice(report.B2BInvoices, page, query.PageSize)
	}
	h.recordBuild(c, "outward_supply", start)
	h.Success(c, report)
}

func pageSlice[T any](items []T, page, pageSize int) []T {
	offset := (page - 1) * pageSize
	if offset >= len(items) {
		return items[:0]
	}
	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// SummaryReturn builds the liability-and-credit summary for a period
func (h *ReportHandler) SummaryReturn(c *gin.Context) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	start := time.Now()
	report, err := h.service.SummaryReturn(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.recordBuild(c, "summary_return", start)
	h.Success(c, report)
}

// HSNSummary builds the per-code aggregate report for a period
func (h *ReportHandler) HSNSummary(c *gin.Context) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	start := time.Now()
	report, err := h.service.HSNSummary(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.recordBuild(c, "hsn_summary", start)
	h.Success(c, report)
}

// ExportOutwardSupply streams the outward-supply report as a document
func (h *ReportHandler) ExportOutwardSupply(c *gin.Context) {
	h.export(c, "outward-supply", h.service.ExportOutwardSupply)
}

// ExportSummaryReturn streams the summary return as a document
func (h *ReportHandler) ExportSummaryReturn(c *gin.Context) {
	h.export(c, "summary-return", h.service.ExportSummaryReturn)
}

// ExportHSNSummary streams the HSN summary as a document
func (h *ReportHandler) ExportHSNSummary(c *gin.Context) {
	h.export(c, "hsn-summary", h.service.ExportHSNSummary)
}

func (h *ReportHandler) export(c *gin.Context, name string,
	render func(ctx context.Context, period string, format reportingapp.ExportFormat) ([]byte, string, error)) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	format := reportingapp.ExportFormat(c.DefaultQuery("format", string(reportingapp.ExportFormatPDF)))
	if format != reportingapp.ExportFormatPDF && format != reportingapp.ExportFormatXLS {
		h.BadRequest(c, "Unsupported export format: "+string(format))
		return
	}

	data, contentType, err := render(c.Request.Context(), period, format)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", name, period, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func (h *ReportHandler) recordBuild(c *gin.Context, reportType string, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordReportBuild(c.Request.Context(), reportType, time.Since(start))
	}
}
