package utils

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response helpers for the billing endpoints. The webhook and mutation
// contracts fix their body shapes, so these write them in one place instead
// of each controller hand-rolling gin.H.

// AckReceived acknowledges a webhook delivery. The processor's contract
// requires a 2xx even when the event was a no-op for us.
func AckReceived(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// RespondError writes the {"error": ...} envelope used by both endpoints.
func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// RespondInternalError logs err and writes the generic 500 envelope. Detail
// is echoed to the client only in development mode.
func RespondInternalError(c *gin.Context, err error, devMode bool) {
	log.Printf("internal error: %v", err)
	message := "An unexpected error occurred"
	if devMode && err != nil {
		message = err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal server error",
		"message": message,
	})
}

// RespondMutationSuccess writes the mutation endpoint's success envelope.
func RespondMutationSuccess(c *gin.Context, action string, subscription interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"subscription": subscription,
		"message":      fmt.Sprintf("Subscription %s completed successfully", action),
	})
}

// HandleMutationError maps service errors from the mutation path onto the
// endpoint's contract: validation 400, not-found 404, everything else 500.
func HandleMutationError(c *gin.Context, err error, devMode bool) {
	switch {
	case IsValidationError(err):
		RespondError(c, http.StatusBadRequest, err.Error())
	case IsNotFoundError(err):
		RespondError(c, http.StatusNotFound, err.Error())
	default:
		RespondInternalError(c, err, devMode)
	}
}
