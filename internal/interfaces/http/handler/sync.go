package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oceanerp/backend/internal/application/ordersync"
	"github.com/oceanerp/backend/internal/application/stocksync"
	"github.com/oceanerp/backend/internal/domain/trade"
	"github.com/oceanerp/backend/internal/interfaces/http/dto"
	"github.com/oceanerp/backend/internal/interfaces/http/middleware"
)

// SyncHandler handles stock push and order pull endpoints
type SyncHandler struct {
	BaseHandler
	stockService *stocksync.Service
	orderService *ordersync.Service
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(stockService *stocksync.Service, orderService *ordersync.Service) *SyncHandler {
	return &SyncHandler{
		stockService: stockService,
		orderService: orderService,
	}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/stock", h.SyncStock)
		sync.POST("/stock/reserve", h.ReserveStock)
		sync.POST("/stock/release", h.ReleaseStock)
		sync.GET("/stock/:productId", h.GetStockLevel)

		sync.POST("/orders", h.SyncAllOrders)
		sync.POST("/orders/storefront/:id", h.SyncStorefrontOrders)
		sync.POST("/orders/single", h.SyncSingleOrder)
		sync.PUT("/orders/:id/status", h.UpdateOrderStatus)
	}
}

// StockSyncRequest is the request body for stock push and reservation
type StockSyncRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"min=0"`
}

// ReserveStockRequest is the request body for stock reservation and release
type ReserveStockRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// SingleOrderSyncRequest is the request body for pulling one order by its
// platform-side ID
type SingleOrderSyncRequest struct {
	StorefrontID    int64  `json:"storefrontId" binding:"required,gt=0"`
	ExternalOrderID string `json:"externalOrderId" binding:"required"`
}

// OrderStatusUpdateRequest is the request body for pushing an order status
// change out to its platform
type OrderStatusUpdateRequest struct {
	StorefrontID   int64  `json:"storefrontId" binding:"required,gt=0"`
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
}

// SyncStock pushes a product's absolute quantity to every mapped storefront
// and then writes it to the ERP. Per-platform failures are reported in the
// result body, not as an HTTP error.
func (h *SyncHandler) SyncStock(c *gin.Context) {
	var req StockSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.stockService.SyncStockToAllPlatforms(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ReserveStock atomically reserves quantity for an order. Responds 422 when
// the available stock cannot cover the request.
func (h *SyncHandler) ReserveStock(c *gin.Context) {
	var req ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	reserved, err := h.stockService.ReserveStock(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !reserved {
		h.ErrorWithCode(c, dto.ErrCodeInsufficientStock, "Insufficient stock available")
		return
	}
	h.Success(c, gin.H{"productId": req.ProductID, "reserved": req.Quantity})
}

// ReleaseStock returns a previously reserved quantity to the available pool.
func (h *SyncHandler) ReleaseStock(c *gin.Context) {
	var req ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.stockService.ReleaseStock(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"productId": req.ProductID, "released": req.Quantity})
}

// GetStockLevel returns the ERP stock level for a product.
func (h *SyncHandler) GetStockLevel(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || productID <= 0 {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	level, err := h.stockService.GetStockLevel(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// SyncAllOrders pulls new and updated orders from every active storefront.
func (h *SyncHandler) SyncAllOrders(c *gin.Context) {
	results, err := h.orderService.SyncAllStorefronts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// SyncStorefrontOrders pulls orders from a single storefront. Responds 409
// when another pull for the same storefront is still running.
func (h *SyncHandler) SyncStorefrontOrders(c *gin.Context) {
	storefrontID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || storefrontID <= 0 {
		h.BadRequest(c, "Invalid storefront ID")
		return
	}

	result, err := h.orderService.SyncOrdersFromPlatform(c.Request.Context(), storefrontID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SyncSingleOrder fetches one order by its platform-side ID and imports it,
// bypassing the pull cursor.
func (h *SyncHandler) SyncSingleOrder(c *gin.Context) {
	var req SingleOrderSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.orderService.SyncSingleOrder(c.Request.Context(), req.StorefrontID, req.ExternalOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UpdateOrderStatus pushes an ERP order's status change to the platform it
// was imported from and records the new status locally.
func (h *SyncHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req OrderStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	status := trade.OrderStatus(req.Status)
	if err := h.orderService.UpdateOrderStatus(c.Request.Context(), req.StorefrontID, orderID, status, req.TrackingNumber); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"orderId": orderID, "status": status})
}
