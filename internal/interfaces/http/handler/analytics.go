package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	analyticsapp "github.com/oceanerp/backend/internal/application/analytics"
	"github.com/oceanerp/backend/internal/domain/integration"
	"github.com/oceanerp/backend/internal/interfaces/http/middleware"
)

// defaultReportWindow is used when the caller omits the from/to query
// parameters.
const defaultReportWindow = 30 * 24 * time.Hour

// AnalyticsHandler handles reporting endpoints
type AnalyticsHandler struct {
	BaseHandler
	service *analyticsapp.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(service *analyticsapp.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// RegisterRoutes registers analytics routes
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	{
		analytics.GET("/platforms/:platform", h.GetPlatformMetrics)
		analytics.GET("/comparison", h.GetComparativeAnalytics)
		analytics.GET("/trend", h.GetSalesTrend)
		analytics.GET("/top-products", h.GetTopSellingProducts)
		analytics.GET("/inventory", h.GetInventoryAnalytics)
		analytics.POST("/warehouse-sync", h.SyncWarehouse)
	}
}

// WarehouseSyncRequest is the request body for rebuilding daily sales facts
type WarehouseSyncRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// reportWindow reads the from/to query parameters, defaulting to the last 30
// days. Returns ok=false after writing the error response.
func (h *AnalyticsHandler) reportWindow(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.Add(-defaultReportWindow)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			h.BadRequest(c, "Invalid 'from' date")
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			h.BadRequest(c, "Invalid 'to' date")
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	if !to.After(from) {
		h.BadRequest(c, "'to' must be after 'from'")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// GetPlatformMetrics returns one platform's sales snapshot for a window.
func (h *AnalyticsHandler) GetPlatformMetrics(c *gin.Context) {
	platform := integration.PlatformCode(c.Param("platform"))
	if !platform.IsValid() {
		h.BadRequest(c, "Unknown platform: "+c.Param("platform"))
		return
	}

	from, to, ok := h.reportWindow(c)
	if !ok {
		return
	}

	metrics, err := h.service.GetPlatformMetrics(c.Request.Context(), platform, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}

// GetComparativeAnalytics returns the snapshot for every platform with an
// active storefront, in one shape regardless of where the numbers came from.
func (h *AnalyticsHandler) GetComparativeAnalytics(c *gin.Context) {
	from, to, ok := h.reportWindow(c)
	if !ok {
		return
	}

	report, err := h.service.GetComparativeAnalytics(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// GetSalesTrend returns per-day, per-platform sales facts from the warehouse.
func (h *AnalyticsHandler) GetSalesTrend(c *gin.Context) {
	from, to, ok := h.reportWindow(c)
	if !ok {
		return
	}

	trend, err := h.service.GetSalesTrend(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trend)
}

// GetTopSellingProducts ranks products by units sold in a window.
func (h *AnalyticsHandler) GetTopSellingProducts(c *gin.Context) {
	from, to, ok := h.reportWindow(c)
	if !ok {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, "Invalid 'limit'")
			return
		}
		limit = parsed
	}

	products, err := h.service.GetTopSellingProducts(c.Request.Context(), from, to, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// GetInventoryAnalytics returns the current stock position snapshot.
func (h *AnalyticsHandler) GetInventoryAnalytics(c *gin.Context) {
	summary, err := h.service.GetInventoryAnalytics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// SyncWarehouse rebuilds the daily sales facts for a window from imported
// orders. Re-running a window converges instead of double counting.
func (h *AnalyticsHandler) SyncWarehouse(c *gin.Context) {
	var req WarehouseSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	from, err := parseDate(req.From)
	if err != nil {
		h.BadRequest(c, "Invalid 'from' date")
		return
	}
	to, err := parseDate(req.To)
	if err != nil {
		h.BadRequest(c, "Invalid 'to' date")
		return
	}

	written, err := h.service.SyncSalesToWarehouse(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"factsWritten": written})
}
