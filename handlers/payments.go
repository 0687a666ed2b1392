package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hussein221k/Ecommerce/internal/checkout"
	"github.com/hussein221k/Ecommerce/internal/orders"
	"github.com/hussein221k/Ecommerce/internal/payments"
	"github.com/hussein221k/Ecommerce/pkg/ctxmanage"
	"github.com/hussein221k/Ecommerce/pkg/logkey"
)

// BankTransferPayment records the evidence of a bank transfer for an order.
// The amount is taken from the stored order, never from the client.
func (h *Handler) BankTransferPayment(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		OrderID  string `json:"order_id"`
		ProofURL string `json:"proof_url"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.OrderID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	h.recordPayment(c, traceId, payments.NewTransaction{
		OrderID:  request.OrderID,
		Provider: payments.ProviderBankAlAhly,
		ProofURL: request.ProofURL,
	})
}

// WalletPayment records a mobile-wallet transfer. The sender wallet number
// and a proof image are both required.
func (h *Handler) WalletPayment(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		OrderID     string `json:"order_id"`
		SenderPhone string `json:"sender_phone"`
		ProofURL    string `json:"proof_url"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.OrderID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if !checkout.ValidPhone(request.SenderPhone) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": checkout.ErrMissingSenderNumber.Error()})
		return
	}
	if request.ProofURL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": checkout.ErrMissingProofImage.Error()})
		return
	}

	h.recordPayment(c, traceId, payments.NewTransaction{
		OrderID:     request.OrderID,
		Provider:    payments.ProviderVodafoneCash,
		SenderPhone: request.SenderPhone,
		ProofURL:    request.ProofURL,
	})
}

func (h *Handler) recordPayment(c *gin.Context, traceId string, nt payments.NewTransaction) {
	order, err := h.o.GetOrderByID(c.Request.Context(), nt.OrderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		slog.Error("error fetching order for payment", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.OrderID, nt.OrderID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to record payment"})
		return
	}
	if order.PaymentStatus == orders.PaymentCompleted {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"success": false, "message": "Order is already paid"})
		return
	}

	nt.Amount = order.TotalAmount
	if claims, ok := claimsOfRequest(c); ok {
		nt.UserID = claims.Subject
	}

	txn, err := h.pay.RecordTransaction(c.Request.Context(), nt)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		slog.Error("error recording transaction", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.OrderID, nt.OrderID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to record payment"})
		return
	}

	// The recorded evidence flipped the order's payment status; announce it
	// like any other status mutation.
	order.PaymentStatus = orders.PaymentCompleted
	h.publishOrderStatusChanged(traceId, order)

	slog.Info("payment recorded", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.OrderID, nt.OrderID), slog.String("Transaction ID", txn.TransactionID))
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": txn})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.pay.ListTransactions(c.Request.Context())
	if err != nil {
		slog.Error("error listing transactions", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}
