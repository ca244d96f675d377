package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oceanerp/backend/internal/application/fulfillment"
	"github.com/oceanerp/backend/internal/interfaces/http/middleware"
)

// FulfillmentHandler handles order fulfillment endpoints
type FulfillmentHandler struct {
	BaseHandler
	service *fulfillment.Service
}

// NewFulfillmentHandler creates a new FulfillmentHandler
func NewFulfillmentHandler(service *fulfillment.Service) *FulfillmentHandler {
	return &FulfillmentHandler{service: service}
}

// RegisterRoutes registers fulfillment routes
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("/:id/accept", h.AcceptOrder)
		orders.POST("/:id/ship", h.ShipOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.GET("/:id/shipping-label", h.GetShippingLabel)
		orders.POST("/bulk-fulfill", h.BulkFulfill)
	}
}

// ShipOrderRequest is the request body for shipping an order
type ShipOrderRequest struct {
	TrackingNumber string `json:"trackingNumber" binding:"required"`
	Carrier        string `json:"carrier,omitempty"`
}

// CancelOrderRequest is the request body for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

// BulkFulfillRequest is the request body for a bulk fulfillment run
type BulkFulfillRequest struct {
	Action string                       `json:"action" binding:"required"`
	Orders []fulfillment.BulkOrderInput `json:"orders" binding:"required"`
}

func (h *FulfillmentHandler) orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid order ID")
		return 0, false
	}
	return id, true
}

// AcceptOrder confirms the order on its source platform. A platform refusal
// is reported in the result body with Success=false, not as an HTTP error.
func (h *FulfillmentHandler) AcceptOrder(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	result, err := h.service.AcceptOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ShipOrder marks the order shipped on its source platform with the given
// tracking number, then mirrors tracking and status into the ERP.
func (h *FulfillmentHandler) ShipOrder(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	var req ShipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.ShipOrder(c.Request.Context(), orderID, req.TrackingNumber, req.Carrier)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CancelOrder cancels the order on its source platform.
func (h *FulfillmentHandler) CancelOrder(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.CancelOrder(c.Request.Context(), orderID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetShippingLabel fetches the printable label document URL. Platforms
// without a label API answer success with an empty URL.
func (h *FulfillmentHandler) GetShippingLabel(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	result, err := h.service.GetShippingLabel(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BulkFulfill applies one fulfillment action to a batch of orders. Every
// order is attempted; per-order outcomes are reported in the result body.
func (h *FulfillmentHandler) BulkFulfill(c *gin.Context) {
	var req BulkFulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.BulkFulfillOrders(c.Request.Context(), req.Action, req.Orders)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
