package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitalis/internal/services"
	"vitalis/pkg/utils"
)

// Keep oversized bodies away from the verifier.
const webhookBodyLimit = 1 << 20

type WebhookController struct {
	webhookService services.WebhookService
	devMode        bool
}

func NewWebhookController(webhookService services.WebhookService, devMode bool) *WebhookController {
	return &WebhookController{
		webhookService: webhookService,
		devMode:        devMode,
	}
}

// Handle ingests one processor delivery. Contract: the processor only ever
// sees a status code and a small JSON envelope; any 2xx stops redelivery.
func (w *WebhookController) Handle(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, webhookBodyLimit)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	err = w.webhookService.Process(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case err == nil:
		utils.AckReceived(c)
	case errors.Is(err, utils.ErrWebhookSecretMissing):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
	case errors.Is(err, utils.ErrInvalidSignature):
		utils.RespondError(c, http.StatusBadRequest, "Invalid signature")
	default:
		// Includes malformed payloads of handled types: a non-2xx makes the
		// processor redeliver instead of us storing zero values.
		utils.RespondInternalError(c, err, w.devMode)
	}
}
