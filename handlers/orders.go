package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hussein221k/Ecommerce/internal/auth"
	"github.com/hussein221k/Ecommerce/internal/checkout"
	"github.com/hussein221k/Ecommerce/internal/orders"
	"github.com/hussein221k/Ecommerce/pkg/ctxmanage"
	"github.com/hussein221k/Ecommerce/pkg/logkey"
)

// createOrderFromRequest validates the submission and writes the order with
// its line-item snapshot. Both POST /orders and POST /checkout land here.
func (h *Handler) createOrderFromRequest(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request checkout.Request
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if err := request.Validate(); err != nil {
		slog.Error("checkout validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// A missing token means a guest order; claims are optional here.
	userID := ""
	if claims, ok := claimsOfRequest(c); ok {
		userID = claims.Subject
	}

	orderID := uuid.NewString()
	order, err := h.o.CreateOrder(c.Request.Context(), orderID, userID, request.NewOrder())
	if err != nil {
		slog.Error("error creating order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create order"})
		return
	}

	// Only a checkout assembled from the stored cart empties it; a buy-now
	// purchase leaves the cart alone.
	if userID != "" && request.FromCart {
		if err := h.c.ClearCart(c.Request.Context(), userID); err != nil {
			slog.Error("error clearing cart after checkout", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		}
	}

	h.publishOrderCreated(traceId, order)

	slog.Info("order created", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.OrderID, order.ID), slog.String("Order Number", order.OrderNumber))
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	h.createOrderFromRequest(c)
}

func (h *Handler) Checkout(c *gin.Context) {
	h.createOrderFromRequest(c)
}

func (h *Handler) GetUserOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	list, err := h.o.ListUserOrders(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error listing orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.UserID, claims.Subject))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

func (h *Handler) GetOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	orderID := c.Param("id")
	order, err := h.o.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		slog.Error("error fetching order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.OrderID, orderID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch order"})
		return
	}

	// Customers only see their own orders; admins see everything.
	if claims.Role != auth.RoleAdmin && order.UserID != claims.Subject {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		Status        *string `json:"status"`
		PaymentStatus *string `json:"payment_status"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if request.Status == nil && request.PaymentStatus == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Nothing to update"})
		return
	}
	if request.Status != nil && !orders.ValidStatus(*request.Status) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order status"})
		return
	}
	if request.PaymentStatus != nil && !orders.ValidPaymentStatus(*request.PaymentStatus) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment status"})
		return
	}

	orderID := c.Param("id")
	order, err := h.o.UpdateOrder(c.Request.Context(), orderID, orders.StatusUpdate{
		Status:        request.Status,
		PaymentStatus: request.PaymentStatus,
	})
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		slog.Error("error updating order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.OrderID, orderID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update order"})
		return
	}

	h.publishOrderStatusChanged(traceId, order)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

func (h *Handler) CancelOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	orderID := c.Param("id")
	order, err := h.o.CancelOrder(c.Request.Context(), orderID, claims.Subject)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		slog.Error("error cancelling order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.OrderID, orderID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to cancel order"})
		return
	}

	h.publishOrderStatusChanged(traceId, order)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

func (h *Handler) GetAllOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.o.ListAllOrders(c.Request.Context())
	if err != nil {
		slog.Error("error listing all orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}
