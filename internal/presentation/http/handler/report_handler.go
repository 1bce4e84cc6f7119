package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deskastudio/kasir-umkm-api/internal/application/service"
	"github.com/deskastudio/kasir-umkm-api/internal/presentation/http/dto/response"
)

// ReportHandler handles sales report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary handles GET /reports/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	start, end, ok := h.parseRange(c)
	if !ok {
		return
	}

	summary, err := h.reportService.SalesSummary(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Sales summary retrieved", summary)
}

// DailySales handles GET /reports/daily
func (h *ReportHandler) DailySales(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "Invalid days value")
			return
		}
		days = parsed
	}

	daily, err := h.reportService.DailySales(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Daily sales retrieved", daily)
}

// TopProducts handles GET /reports/top-products
func (h *ReportHandler) TopProducts(c *gin.Context) {
	start, end, ok := h.parseRange(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "Invalid limit value")
			return
		}
		limit = parsed
	}

	products, err := h.reportService.TopProducts(c.Request.Context(), start, end, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Top products retrieved", products)
}

// Export handles GET /reports/export and streams an XLSX workbook
func (h *ReportHandler) Export(c *gin.Context) {
	start, end, ok := h.parseRange(c)
	if !ok {
		return
	}

	buf, err := h.reportService.ExportSales(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("penjualan_%s_%s.xlsx",
		start.Format("20060102"), end.AddDate(0, 0, -1).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// LowStock handles GET /reports/low-stock
func (h *ReportHandler) LowStock(c *gin.Context) {
	products, err := h.reportService.LowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Low stock products retrieved", products)
}

// parseRange reads start_date/end_date query values; missing values default to
// the last 30 days. The returned end is exclusive.
func (h *ReportHandler) parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -30)

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := ParseDate(raw)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		start = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := ParseDate(raw)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		end = parsed.AddDate(0, 0, 1)
	}

	return start, end, true
}
