package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hussein221k/Ecommerce/pkg/ctxmanage"
	"github.com/hussein221k/Ecommerce/pkg/logkey"
)

const maxUploadBytes = 5 << 20

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// UploadImage forwards a multipart image to the configured media host and
// returns the hosted URL. The file never touches local disk.
func (h *Handler) UploadImage(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if h.up == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Image upload is not configured"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image must be 5MB or smaller"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExt[ext] {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unsupported image type"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error("error opening uploaded file", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to upload image"})
		return
	}
	defer file.Close()

	result, err := h.up.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		slog.Error("error uploading image", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()),
			slog.String("Filename", fileHeader.Filename))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"success": false, "message": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": result})
}
