package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hussein221k/Ecommerce/internal/content"
	"github.com/hussein221k/Ecommerce/pkg/ctxmanage"
	"github.com/hussein221k/Ecommerce/pkg/logkey"
)

// GetContent serves a storefront content block (hero copy, banner text,
// contact details) by its key.
func (h *Handler) GetContent(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	key := c.Param("key")
	block, err := h.cnt.GetBlock(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Content not found"})
			return
		}
		slog.Error("error fetching content block", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String("Key", key))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch content"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": block})
}

func (h *Handler) PutContent(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	key := c.Param("key")
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 64*1024))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if !json.Valid(body) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Content must be valid JSON"})
		return
	}

	block, err := h.cnt.PutBlock(c.Request.Context(), key, json.RawMessage(body))
	if err != nil {
		slog.Error("error storing content block", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String("Key", key))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store content"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": block})
}
