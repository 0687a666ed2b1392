package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hussein221k/Ecommerce/internal/products"
	"github.com/hussein221k/Ecommerce/pkg/ctxmanage"
	"github.com/hussein221k/Ecommerce/pkg/logkey"
)

func (h *Handler) AddFavorite(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var request struct {
		ProductID int64 `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.ProductID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	if err := h.fav.AddFavorite(c.Request.Context(), claims.Subject, request.ProductID); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}
		slog.Error("error adding favorite", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()),
			slog.Int64(logkey.ProductID, request.ProductID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added to favorites"})
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var request struct {
		ProductID int64 `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.ProductID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	if err := h.fav.RemoveFavorite(c.Request.Context(), claims.Subject, request.ProductID); err != nil {
		slog.Error("error removing favorite", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()),
			slog.Int64(logkey.ProductID, request.ProductID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Removed from favorites"})
}

func (h *Handler) GetMyFavorites(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	list, err := h.fav.ListFavorites(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error listing favorites", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.UserID, claims.Subject))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

func (h *Handler) CheckFavorite(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	productID, err := strconv.ParseInt(c.Param("productID"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	favorited, err := h.fav.IsFavorite(c.Request.Context(), claims.Subject, productID)
	if err != nil {
		slog.Error("error checking favorite", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.Int64(logkey.ProductID, productID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"is_favorite": favorited}})
}
