package request_models

type UpdateSubscriptionRequest struct {
	UserID string `json:"userId"`
	Action string `json:"action"`

	// Required for upgrade/downgrade, tolerated-but-ignored for cancel.
	NewPriceID string `json:"newPriceId"`
}
