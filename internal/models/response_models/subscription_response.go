package response_models

import (
	"vitalis/internal/models/db_models"
)

// SubscriptionResponse is the snapshot as the API renders it. Field names
// match what the dashboard already consumes.
type SubscriptionResponse struct {
	SubscriptionID     *string `json:"subscriptionId"`
	Status             string  `json:"status"`
	PlanID             *string `json:"planId"`
	PlanName           *string `json:"planName"`
	CurrentPeriodStart *int64  `json:"currentPeriodStart"`
	CurrentPeriodEnd   *int64  `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool    `json:"cancelAtPeriodEnd"`
	TrialEnd           *int64  `json:"trialEnd"`
	CanceledAt         *int64  `json:"canceledAt"`
	PaymentFailed      bool    `json:"paymentFailed"`
	LastPaymentFailure *int64  `json:"lastPaymentFailure"`
	UpdatedAt          int64   `json:"updatedAt"`
}

func SubscriptionFromSnapshot(snap db_models.SubscriptionSnapshot) SubscriptionResponse {
	return SubscriptionResponse{
		SubscriptionID:     snap.SubscriptionID,
		Status:             string(snap.Status),
		PlanID:             snap.PlanID,
		PlanName:           snap.PlanName,
		CurrentPeriodStart: snap.CurrentPeriodStart,
		CurrentPeriodEnd:   snap.CurrentPeriodEnd,
		CancelAtPeriodEnd:  snap.CancelAtPeriodEnd,
		TrialEnd:           snap.TrialEnd,
		CanceledAt:         snap.CanceledAt,
		PaymentFailed:      snap.PaymentFailed,
		LastPaymentFailure: snap.LastPaymentFailure,
		UpdatedAt:          snap.UpdatedAt,
	}
}
