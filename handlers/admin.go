package handlers

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hussein221k/Ecommerce/internal/auth"
	"github.com/hussein221k/Ecommerce/internal/users"
	"github.com/hussein221k/Ecommerce/pkg/ctxmanage"
	"github.com/hussein221k/Ecommerce/pkg/logkey"
)

// AdminLogin authenticates the back-office operator against the configured
// admin credentials and issues an admin-role token. There is no admin row in
// the users table.
func (h *Handler) AdminLogin(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.Email == "" || request.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	subject := "admin"
	if h.admin.Email != "" && h.admin.Password != "" {
		emailMatch := subtle.ConstantTimeCompare([]byte(request.Email), []byte(h.admin.Email)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(request.Password), []byte(h.admin.Password)) == 1
		if !emailMatch || !passMatch {
			slog.Error("admin login rejected", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}
	} else {
		// No provisioned credentials; fall back to admin-role accounts in
		// the users table.
		user, err := h.u.AuthenticateAdmin(c.Request.Context(), request.Email, request.Password)
		if err != nil {
			if errors.Is(err, users.ErrInvalidCredentials) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
				return
			}
			slog.Error("error authenticating admin", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Login failed"})
			return
		}
		subject = user.ID
	}

	token, err := h.a.GenerateToken(subject, auth.RoleAdmin)
	if err != nil {
		slog.Error("error generating admin token", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Login failed"})
		return
	}

	slog.Info("admin logged in", slog.String(logkey.TraceID, traceId))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"token": token, "role": auth.RoleAdmin}})
}

// DashboardStats aggregates the counters shown on the back-office landing
// page.
func (h *Handler) DashboardStats(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	ctx := c.Request.Context()

	userCount, err := h.u.CountUsers(ctx)
	if err != nil {
		slog.Error("error counting users", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch stats"})
		return
	}
	productCount, err := h.p.CountProducts(ctx)
	if err != nil {
		slog.Error("error counting products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch stats"})
		return
	}
	orderCount, err := h.o.CountOrders(ctx)
	if err != nil {
		slog.Error("error counting orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch stats"})
		return
	}
	revenue, err := h.o.TotalRevenue(ctx)
	if err != nil {
		slog.Error("error computing revenue", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"users":    userCount,
		"products": productCount,
		"orders":   orderCount,
		"revenue":  revenue,
	}})
}

func (h *Handler) GetAllUsers(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.u.ListUsers(c.Request.Context())
	if err != nil {
		slog.Error("error listing users", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userID := c.Param("id")
	if err := h.u.DeleteUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		slog.Error("error deleting user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.UserID, userID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete user"})
		return
	}

	slog.Info("user deleted", slog.String(logkey.TraceID, traceId), slog.String(logkey.UserID, userID))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}
