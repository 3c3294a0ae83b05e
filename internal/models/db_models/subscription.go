package db_models

type SubscriptionStatus string

const (
	SubStatusTrialing   SubscriptionStatus = "trialing"
	SubStatusActive     SubscriptionStatus = "active"
	SubStatusPastDue    SubscriptionStatus = "past_due"
	SubStatusCanceled   SubscriptionStatus = "canceled"
	SubStatusIncomplete SubscriptionStatus = "incomplete"
	SubStatusUnpaid     SubscriptionStatus = "unpaid"
)

// SubscriptionSnapshot is the single current-state projection of a user's
// subscription, embedded on the users row (sub_ column prefix). It mirrors
// the processor's vocabulary; there is exactly one per user and no history.
//
// Timestamps are unix seconds. Nullable fields are pointers so a canceled
// snapshot can null them out without sentinel values.
type SubscriptionSnapshot struct {
	SubscriptionID *string `gorm:"index"`
	Status         SubscriptionStatus
	PlanID         *string
	PlanName       *string

	CurrentPeriodStart *int64
	CurrentPeriodEnd   *int64
	CancelAtPeriodEnd  bool `gorm:"default:false"`
	TrialEnd           *int64
	CanceledAt         *int64

	PaymentFailed      bool `gorm:"default:false"`
	LastPaymentFailure *int64

	// EventAt is the source event's created time; projector writes are
	// rejected when they carry an older event time than the stored one.
	EventAt int64 `gorm:"not null;default:0"`

	// UpdatedAt is the write time of the last projection.
	UpdatedAt int64 `gorm:"not null;default:0"`
}

// Populated reports whether a snapshot has ever been projected for the user.
func (s SubscriptionSnapshot) Populated() bool {
	return s.Status != "" || s.SubscriptionID != nil
}
