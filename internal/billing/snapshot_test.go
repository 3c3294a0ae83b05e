package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalis/internal/models/db_models"
)

func premiumSubscription() *SubscriptionObject {
	return &SubscriptionObject{
		ID:                "sub_1",
		Customer:          "cus_1",
		Status:            "active",
		CancelAtPeriodEnd: false,
		TrialEnd:          0,
		Items: SubscriptionItemList{
			Data: []SubscriptionItem{
				{
					ID:                 "si_1",
					CurrentPeriodStart: 1_700_000_000,
					CurrentPeriodEnd:   1_702_592_000,
					Price:              Price{ID: "price_premium", Nickname: "Premium Annual"},
				},
			},
		},
	}
}

func TestDeriveSnapshotMapsAllFields(t *testing.T) {
	snap := DeriveSnapshot(premiumSubscription(), 1_700_000_100, 1_700_000_200)

	require.NotNil(t, snap.SubscriptionID)
	assert.Equal(t, "sub_1", *snap.SubscriptionID)
	assert.Equal(t, db_models.SubStatusActive, snap.Status)

	require.NotNil(t, snap.PlanID)
	assert.Equal(t, "price_premium", *snap.PlanID)
	require.NotNil(t, snap.PlanName)
	assert.Equal(t, "Premium Annual", *snap.PlanName)

	require.NotNil(t, snap.CurrentPeriodStart)
	assert.Equal(t, int64(1_700_000_000), *snap.CurrentPeriodStart)
	require.NotNil(t, snap.CurrentPeriodEnd)
	assert.Equal(t, int64(1_702_592_000), *snap.CurrentPeriodEnd)

	assert.False(t, snap.CancelAtPeriodEnd)
	assert.Nil(t, snap.TrialEnd)
	assert.Nil(t, snap.CanceledAt)
	assert.False(t, snap.PaymentFailed)
	assert.Nil(t, snap.LastPaymentFailure)

	assert.Equal(t, int64(1_700_000_100), snap.EventAt)
	assert.Equal(t, int64(1_700_000_200), snap.UpdatedAt)
}

func TestDeriveSnapshotPlanNameFallback(t *testing.T) {
	obj := premiumSubscription()
	obj.Items.Data[0].Price.Nickname = ""

	snap := DeriveSnapshot(obj, 1, 2)

	require.NotNil(t, snap.PlanName)
	assert.Equal(t, DefaultPlanName, *snap.PlanName)
}

func TestDeriveSnapshotWithoutItemsLeavesPlanEmpty(t *testing.T) {
	obj := premiumSubscription()
	obj.Items.Data = nil
	obj.CurrentPeriodStart = 100
	obj.CurrentPeriodEnd = 200

	snap := DeriveSnapshot(obj, 1, 2)

	assert.Nil(t, snap.PlanID)
	assert.Nil(t, snap.PlanName)
	// Top-level period fields still apply for older API shapes.
	require.NotNil(t, snap.CurrentPeriodStart)
	assert.Equal(t, int64(100), *snap.CurrentPeriodStart)
	require.NotNil(t, snap.CurrentPeriodEnd)
	assert.Equal(t, int64(200), *snap.CurrentPeriodEnd)
}

// Processing created-then-updated with identical payloads must land on the
// same snapshot as processing updated alone.
func TestDeriveSnapshotIsIdempotentAcrossEventTypes(t *testing.T) {
	first := DeriveSnapshot(premiumSubscription(), 10, 500)
	second := DeriveSnapshot(premiumSubscription(), 10, 500)

	assert.Equal(t, first, second)
}

func TestCanceledSnapshotShape(t *testing.T) {
	snap := CanceledSnapshot(1_700_000_100, 1_700_000_200)

	assert.Nil(t, snap.SubscriptionID)
	assert.Equal(t, db_models.SubStatusCanceled, snap.Status)
	assert.Nil(t, snap.PlanID)
	assert.Nil(t, snap.PlanName)
	assert.Nil(t, snap.CurrentPeriodStart)
	assert.Nil(t, snap.CurrentPeriodEnd)
	assert.False(t, snap.CancelAtPeriodEnd)

	// canceledAt reflects processing time, not event time.
	require.NotNil(t, snap.CanceledAt)
	assert.Equal(t, int64(1_700_000_200), *snap.CanceledAt)
	assert.Equal(t, int64(1_700_000_100), snap.EventAt)
}

func TestDeriveSnapshotTrialingWithTrialEnd(t *testing.T) {
	obj := premiumSubscription()
	obj.Status = "trialing"
	obj.TrialEnd = 1_701_000_000

	snap := DeriveSnapshot(obj, 1, 2)

	assert.Equal(t, db_models.SubStatusTrialing, snap.Status)
	require.NotNil(t, snap.TrialEnd)
	assert.Equal(t, int64(1_701_000_000), *snap.TrialEnd)
}
