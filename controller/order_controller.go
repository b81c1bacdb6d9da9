package controller

import (
	"net/http"

	"nosql-repository-backend/models"
	"nosql-repository-backend/repository"
	"nosql-repository-backend/services"
	"nosql-repository-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	logger       logger.Logger
	validator    *validator.Validate
}

func NewOrderController(orderService services.OrderServiceInterface, logger logger.Logger) *OrderController {
	return &OrderController{
		orderService: orderService,
		logger:       logger,
		validator:    validator.New(),
	}
}

// GetOrders handles GET /orders
func (h *OrderController) GetOrders(c *gin.Context) {
	orders, err := h.orderService.GetOrders(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list orders: %v", err)
		serviceFailure(c, "Failed to retrieve orders", err)
		return
	}
	success(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderController) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceFailure(c, "Failed to retrieve order", err)
		return
	}
	success(c, http.StatusOK, "Order retrieved successfully", order)
}

// GetOrdersByProductName handles GET /orders/productName/:productName
func (h *OrderController) GetOrdersByProductName(c *gin.Context) {
	orders, err := h.orderService.GetOrdersByProductName(c.Request.Context(), c.Param("productName"))
	if err != nil {
		h.logger.Errorf("Failed to query orders by product: %v", err)
		serviceFailure(c, "Failed to retrieve orders", err)
		return
	}
	success(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// GetOrdersByUserEmail handles GET /orders/email/:email
func (h *OrderController) GetOrdersByUserEmail(c *gin.Context) {
	orders, err := h.orderService.GetOrdersByUserEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.logger.Errorf("Failed to query orders by email: %v", err)
		serviceFailure(c, "Failed to retrieve orders", err)
		return
	}
	success(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// SaveOrder handles PUT /orders. The order replaces any order with the same id.
func (h *OrderController) SaveOrder(c *gin.Context) {
	var req models.OrderRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		serviceFailure(c, "Failed to save order", err)
		return
	}
	success(c, http.StatusCreated, "Order saved successfully", order)
}

// DeleteOrder handles DELETE /orders/:id. Deleting an absent order succeeds.
func (h *OrderController) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		serviceFailure(c, "Failed to delete order", err)
		return
	}
	success(c, http.StatusOK, "Order deleted successfully", nil)
}

// SaveOrderWithEvent handles POST /orders/events
func (h *OrderController) SaveOrderWithEvent(c *gin.Context) {
	var req models.OrderWithEventRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	order, err := h.orderService.CreateOrderWithEvent(c.Request.Context(), &req)
	if err != nil {
		serviceFailure(c, "Failed to save order and event", err)
		return
	}
	success(c, http.StatusCreated, "Order and event saved successfully", order)
}

// BatchGetOrdersAndEvents handles POST /orders/events/batch. A batch that
// left keys unread answers 206 with the rows that were read.
func (h *OrderController) BatchGetOrdersAndEvents(c *gin.Context) {
	var req models.BatchOrderEventRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	result, err := h.orderService.BatchGetOrdersAndEvents(c.Request.Context(), &req)
	switch {
	case err != nil && repository.IsPartialBatch(err) && result != nil:
		c.JSON(http.StatusPartialContent, models.APIResponse{
			Status:  "partial",
			Code:    http.StatusPartialContent,
			Message: "Some keys were not read",
			Data:    result,
			Error:   &models.APIError{Type: "BatchIncomplete", Details: err.Error()},
		})
	case err != nil:
		serviceFailure(c, "Failed to read orders and events", err)
	default:
		success(c, http.StatusOK, "Orders and events retrieved successfully", result)
	}
}
