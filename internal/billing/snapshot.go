package billing

import (
	"vitalis/internal/models/db_models"
)

// DefaultPlanName is used when the processor's price has no human-readable
// nickname. A named default, not an error: checkout flows often create
// prices without nicknames.
const DefaultPlanName = "Premium Plan"

// DeriveSnapshot maps a processor subscription object to the canonical
// snapshot. Both the webhook projector and the mutation service's
// re-projection go through here so the two paths cannot drift.
//
// eventAt is the source event's created time (or processing time on the
// mutation path); now becomes the snapshot's UpdatedAt.
func DeriveSnapshot(obj *SubscriptionObject, eventAt, now int64) db_models.SubscriptionSnapshot {
	snap := db_models.SubscriptionSnapshot{
		SubscriptionID:    strPtr(obj.ID),
		Status:            db_models.SubscriptionStatus(obj.Status),
		CancelAtPeriodEnd: obj.CancelAtPeriodEnd,
		TrialEnd:          unixPtr(obj.TrialEnd),
		CanceledAt:        unixPtr(obj.CanceledAt),
		EventAt:           eventAt,
		UpdatedAt:         now,
	}

	if start := obj.PeriodStart(); start > 0 {
		snap.CurrentPeriodStart = &start
	}
	if end := obj.PeriodEnd(); end > 0 {
		snap.CurrentPeriodEnd = &end
	}

	if item := obj.FirstItem(); item != nil && item.Price.ID != "" {
		snap.PlanID = strPtr(item.Price.ID)
		name := item.Price.Nickname
		if name == "" {
			name = DefaultPlanName
		}
		snap.PlanName = &name
	}

	return snap
}

// CanceledSnapshot is the terminal projection written on
// subscription.deleted: every plan and period field nulled, status canceled,
// canceledAt set to processing time rather than event time.
func CanceledSnapshot(eventAt, now int64) db_models.SubscriptionSnapshot {
	return db_models.SubscriptionSnapshot{
		SubscriptionID:    nil,
		Status:            db_models.SubStatusCanceled,
		PlanID:            nil,
		PlanName:          nil,
		CancelAtPeriodEnd: false,
		CanceledAt:        &now,
		EventAt:           eventAt,
		UpdatedAt:         now,
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func unixPtr(t int64) *int64 {
	if t <= 0 {
		return nil
	}
	return &t
}
