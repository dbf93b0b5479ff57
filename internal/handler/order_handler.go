package handler

import (
	"net/http"

	"github.com/bitzerlab/ordertrack/internal/service"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves the /orders endpoints.
type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// List handles GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Get handles GET /orders/{id|order_number}.
func (h *OrderHandler) Get(c *gin.Context) {
	ref, ok := PathID(c, "ref")
	if !ok {
		return
	}
	order, err := h.svc.Get(c.Request.Context(), ref)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Detail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Update handles PATCH /orders/{id|order_number}.
func (h *OrderHandler) Update(c *gin.Context) {
	ref, ok := PathID(c, "ref")
	if !ok {
		return
	}

	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Detail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.Update(c.Request.Context(), ref, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
