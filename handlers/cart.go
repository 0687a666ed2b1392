package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hussein221k/Ecommerce/internal/cart"
	"github.com/hussein221k/Ecommerce/pkg/ctxmanage"
	"github.com/hussein221k/Ecommerce/pkg/logkey"
)

func (h *Handler) GetCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	cartResponse, err := h.c.GetCart(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error fetching cart items", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.UserID, claims.Subject))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": cartResponse})
}

func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var request struct {
		ProductID    int64  `json:"product_id"`
		Quantity     int    `json:"quantity"`
		SelectedSize string `json:"selected_size"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if request.ProductID <= 0 || request.Quantity <= 0 {
		slog.Error("invalid product ID or quantity", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product ID and quantity must be valid"})
		return
	}

	err := h.c.AddItem(c.Request.Context(), claims.Subject, request.ProductID, request.Quantity, request.SelectedSize)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrProductNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		case errors.Is(err, cart.ErrInsufficientStock):
			slog.Error("insufficient stock", slog.String(logkey.TraceID, traceId), slog.Int64(logkey.ProductID, request.ProductID))
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"success": false, "message": "Insufficient stock available"})
		default:
			slog.Error("error adding product to cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()),
				slog.Int64(logkey.ProductID, request.ProductID), slog.Int("Quantity", request.Quantity))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add product to cart"})
		}
		return
	}

	slog.Info("product added to cart", slog.String(logkey.TraceID, traceId),
		slog.Int64(logkey.ProductID, request.ProductID), slog.Int("Quantity", request.Quantity), slog.String(logkey.UserID, claims.Subject))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item added to cart"})
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var request struct {
		ProductID    int64  `json:"product_id"`
		SelectedSize string `json:"selected_size"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.ProductID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if err := h.c.RemoveItem(c.Request.Context(), claims.Subject, request.ProductID, request.SelectedSize); err != nil {
		slog.Error("error removing cart item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove item from cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed from cart"})
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var request struct {
		ProductID    int64  `json:"product_id"`
		Quantity     int    `json:"quantity"`
		SelectedSize string `json:"selected_size"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.ProductID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	// Quantities below one never mutate the line.
	if request.Quantity < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Quantity must be at least 1"})
		return
	}

	err := h.c.UpdateItemQuantity(c.Request.Context(), claims.Subject, request.ProductID, request.SelectedSize, request.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not in cart"})
			return
		}
		slog.Error("error updating cart item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated"})
}

func (h *Handler) ClearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	if err := h.c.ClearCart(c.Request.Context(), claims.Subject); err != nil {
		slog.Error("error clearing cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
}

// MergeCart folds a guest-session cart into the authenticated user's cart.
// Matching lines coalesce by quantity sum. When a guest id is supplied the
// stored guest blob is dropped after the merge.
func (h *Handler) MergeCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var request struct {
		GuestID string      `json:"guest_id"`
		Items   []cart.Item `json:"items"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	items := request.Items
	if len(items) == 0 && request.GuestID != "" {
		guestCart, err := h.c.GetGuestCart(c.Request.Context(), request.GuestID)
		if err != nil {
			slog.Error("error fetching guest cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to merge cart"})
			return
		}
		items = guestCart.Items
	}

	if err := h.c.MergeItems(c.Request.Context(), claims.Subject, items); err != nil {
		slog.Error("error merging cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.UserID, claims.Subject))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to merge cart"})
		return
	}

	if request.GuestID != "" {
		if err := h.c.DeleteGuestCart(c.Request.Context(), request.GuestID); err != nil {
			slog.Error("error deleting guest cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		}
	}

	cartResponse, err := h.c.GetCart(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error fetching cart after merge", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart merged", "data": cartResponse})
}

func (h *Handler) GetGuestCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	guestID := c.GetHeader("X-Guest-ID")
	if guestID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "X-Guest-ID header is required"})
		return
	}

	guestCart, err := h.c.GetGuestCart(c.Request.Context(), guestID)
	if err != nil {
		slog.Error("error fetching guest cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch guest cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"items": guestCart.Items, "total": guestCart.Total()}})
}

func (h *Handler) PutGuestCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	guestID := c.GetHeader("X-Guest-ID")
	if guestID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "X-Guest-ID header is required"})
		return
	}

	var request struct {
		Items []cart.Item `json:"items"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	// Duplicate lines in the submitted blob coalesce by product and size.
	var crt cart.Cart
	for _, item := range request.Items {
		if item.ProductID <= 0 || item.Quantity < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product ID and quantity must be valid"})
			return
		}
		crt.Add(item)
	}

	if err := h.c.PutGuestCart(c.Request.Context(), guestID, crt); err != nil {
		slog.Error("error storing guest cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store guest cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Guest cart saved"})
}
