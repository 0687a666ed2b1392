package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/hussein221k/Ecommerce/internal/auth"
	"github.com/hussein221k/Ecommerce/internal/reviews"
	"github.com/hussein221k/Ecommerce/pkg/ctxmanage"
	"github.com/hussein221k/Ecommerce/pkg/logkey"
)

func (h *Handler) CreateReview(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var newReview reviews.NewReview
	if err := c.ShouldBindJSON(&newReview); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": http.StatusText(http.StatusBadRequest)})
		return
	}

	if err := h.validate.Struct(newReview); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			for _, vErr := range vErrs {
				switch vErr.Tag() {
				case "required":
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": vErr.Field() + " value missing"})
					return
				case "min", "max":
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Rating must be between 1 and 5"})
					return
				default:
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": http.StatusText(http.StatusBadRequest)})
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": http.StatusText(http.StatusBadRequest)})
		return
	}

	// Anonymous reviews are allowed; the user id is recorded when present.
	userID := ""
	if claims, ok := claimsOfRequest(c); ok {
		userID = claims.Subject
	}

	review, err := h.rev.InsertReview(c.Request.Context(), userID, newReview)
	if err != nil {
		slog.Error("error inserting review", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()),
			slog.Int64(logkey.ProductID, newReview.ProductID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": review})
}

func (h *Handler) GetReviewsByProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	productID, err := strconv.ParseInt(c.Param("productID"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	list, err := h.rev.ListReviewsByProduct(c.Request.Context(), productID)
	if err != nil {
		slog.Error("error listing reviews", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.Int64(logkey.ProductID, productID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

// DeleteReview removes a review. Admins may delete any review; users only
// their own.
func (h *Handler) DeleteReview(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := claimsOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review ID"})
		return
	}

	review, err := h.rev.GetReviewByID(c.Request.Context(), reviewID)
	if err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found"})
			return
		}
		slog.Error("error fetching review", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete review"})
		return
	}

	if claims.Role != auth.RoleAdmin && review.UserID != claims.Subject {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Forbidden"})
		return
	}

	if err := h.rev.DeleteReview(c.Request.Context(), reviewID); err != nil {
		slog.Error("error deleting review", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
}
