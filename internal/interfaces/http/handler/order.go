package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/pulzar/backend/internal/application/trade"
	"github.com/pulzar/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// GetOrCreateOpen godoc
// @Summary      Get or create the open order
// @Description  Returns the newest open order, creating one when none exists
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/open [post]
func (h *OrderHandler) GetOrCreateOpen(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	response, err := h.orderService.GetOrCreateOpen(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// GetByID godoc
// @Summary      Get an order
// @Description  Returns an order with its lines and denormalized total
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	response, err := h.orderService.Get(c.Request.Context(), orgID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// AddScan godoc
// @Summary      Add a scanned item to an order
// @Description  Resolves a scanned code to an item and appends a line priced
// @Description  at the item's current price
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.AddScanRequest true "Scan request"
// @Success      201 {object} dto.Response{data=tradeapp.OrderLineResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/scans [post]
func (h *OrderHandler) AddScan(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req tradeapp.AddScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	response, err := h.orderService.AddScan(c.Request.Context(), orgID, orderID, req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, response)
}

// RemoveLine godoc
// @Summary      Remove an order line
// @Tags         orders
// @Param        id path string true "Order ID"
// @Param        lineId path string true "Order line ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/lines/{lineId} [delete]
func (h *OrderHandler) RemoveLine(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	lineID, err := parseIDParam(c, "lineId")
	if err != nil {
		h.BadRequest(c, "Invalid order line ID")
		return
	}

	if err := h.orderService.RemoveLine(c.Request.Context(), orgID, orderID, lineID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Close godoc
// @Summary      Close an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/close [post]
func (h *OrderHandler) Close(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	response, err := h.orderService.Close(c.Request.Context(), orgID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("/open", h.GetOrCreateOpen)
		orders.GET("/:id", h.GetByID)
		orders.POST("/:id/scans", h.AddScan)
		orders.DELETE("/:id/lines/:lineId", h.RemoveLine)
		orders.POST("/:id/close", h.Close)
	}
}
