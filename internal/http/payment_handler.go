package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prepinter/internal/service"
)

// PaymentHandler mantiene dependencias para endpoints de pagos.
type PaymentHandler struct {
	logger      *zap.Logger
	paymentServ *service.PaymentService
}

func NewPaymentHandler(logger *zap.Logger, paymentServ *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		logger:      logger,
		paymentServ: paymentServ,
	}
}

// CreateOrder maneja POST /api/payments/create-order.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Amount   int64  `json:"amount" binding:"required"`
		Currency string `json:"currency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create order request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount is required"})
		return
	}

	payment, err := h.paymentServ.CreateOrder(c.Request.Context(), user.ID, req.Amount, req.Currency)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		case errors.Is(err, service.ErrPaymentUpstream):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment gateway unavailable"})
		default:
			h.logger.Error("create order failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create order"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// Verify maneja POST /api/payments/verify.
func (h *PaymentHandler) Verify(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		OrderID   string `json:"razorpayOrderId" binding:"required"`
		PaymentID string `json:"razorpayPaymentId" binding:"required"`
		Signature string `json:"razorpaySignature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "order id, payment id and signature are required"})
		return
	}

	payment, err := h.paymentServ.Verify(c.Request.Context(), user.ID, service.VerifyInput{
		GatewayOrderID:   req.OrderID,
		GatewayPaymentID: req.PaymentID,
		Signature:        req.Signature,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		case errors.Is(err, service.ErrPaymentIncomplete):
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification fields missing"})
		case errors.Is(err, service.ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment verification failed"})
		default:
			h.logger.Error("verify payment failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify payment"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}

// History maneja GET /api/payments/history.
func (h *PaymentHandler) History(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	payments, err := h.paymentServ.History(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("payment history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// Subscription maneja GET /api/payments/subscription.
func (h *PaymentHandler) Subscription(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	status, err := h.paymentServ.Subscription(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("subscription status failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": status})
}
