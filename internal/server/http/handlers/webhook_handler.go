package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
)

// maxWebhookBody caps webhook payload size. Checkout events are small; the
// limit protects the raw-body read from oversized requests.
const maxWebhookBody = 64 * 1024

// WebhookHandler receives payment provider notifications.
type WebhookHandler struct {
	facade PaymentFacade
	logger *slog.Logger
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade PaymentFacade, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{facade: facade, logger: logger}
}

// Handle processes POST /api/order/webhook. The raw body is read before any
// parsing because signature verification covers the exact bytes sent by the
// provider. Only a bad signature earns a non-2xx answer; processing failures
// are logged and acknowledged so the provider does not retry forever.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error("webhook body read failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")

	if err := h.facade.ConfirmPaymentEvent(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, domainErrors.ErrInvalidSignature) {
			h.logger.Warn("webhook signature verification failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		h.logger.Error("webhook processing failed", slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
