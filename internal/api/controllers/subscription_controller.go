package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vitalis/internal/models/request_models"
	"vitalis/internal/services"
	"vitalis/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionService
	devMode             bool
}

func NewSubscriptionController(subscriptionService services.SubscriptionService, devMode bool) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		devMode:             devMode,
	}
}

// UpdateSubscription applies a user-initiated upgrade, downgrade or
// cancellation and returns the re-projected snapshot.
func (s *SubscriptionController) UpdateSubscription(c *gin.Context) {
	var request request_models.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	subscription, err := s.subscriptionService.Mutate(c.Request.Context(), request.UserID, request.Action, request.NewPriceID)
	if err != nil {
		utils.HandleMutationError(c, err, s.devMode)
		return
	}

	utils.RespondMutationSuccess(c, request.Action, subscription)
}

// GetSubscription returns the user's current snapshot.
func (s *SubscriptionController) GetSubscription(c *gin.Context) {
	subscription, err := s.subscriptionService.GetSnapshot(c.Request.Context(), c.Param("userId"))
	if err != nil {
		utils.HandleMutationError(c, err, s.devMode)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": subscription})
}
