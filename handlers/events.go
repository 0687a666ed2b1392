package handlers

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hussein221k/Ecommerce/internal/auth"
	"github.com/hussein221k/Ecommerce/internal/orders"
	"github.com/hussein221k/Ecommerce/internal/stores/kafka"
	"github.com/hussein221k/Ecommerce/pkg/logkey"
)

func claimsOfRequest(c *gin.Context) (auth.Claims, bool) {
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	return claims, ok
}

// publishOrderCreated emits the order-created event in the background.
// Event delivery is best effort; a broker failure is logged and the HTTP
// response is unaffected.
func (h *Handler) publishOrderCreated(traceId string, order orders.Order) {
	if h.k == nil {
		return
	}

	go func() {
		jsonData, err := json.Marshal(kafka.OrderCreatedEvent{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			UserID:        order.UserID,
			IsGuest:       order.IsGuest,
			TotalAmount:   order.TotalAmount.String(),
			PaymentMethod: order.PaymentMethod,
			CreatedAt:     time.Now().UTC(),
		})
		if err != nil {
			slog.Error("failed to marshal OrderCreatedEvent", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			return
		}

		if err := h.k.ProduceMessage(kafka.TopicOrderCreated, []byte(order.ID), jsonData); err != nil {
			slog.Error("failed to produce message", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			return
		}
		slog.Info("order event produced", slog.String(logkey.TraceID, traceId), slog.String(logkey.OrderID, order.ID))
	}()
}

func (h *Handler) publishOrderStatusChanged(traceId string, order orders.Order) {
	if h.k == nil {
		return
	}

	go func() {
		jsonData, err := json.Marshal(kafka.OrderStatusChangedEvent{
			OrderID:       order.ID,
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			ChangedAt:     time.Now().UTC(),
		})
		if err != nil {
			slog.Error("failed to marshal OrderStatusChangedEvent", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			return
		}

		if err := h.k.ProduceMessage(kafka.TopicOrderStatusChanged, []byte(order.ID), jsonData); err != nil {
			slog.Error("failed to produce message", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		}
	}()
}
