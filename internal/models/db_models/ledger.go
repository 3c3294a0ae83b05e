package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PaymentRecord is one successful payment reported by the processor.
// Ledger rows are append-only: never updated, never deleted.
type PaymentRecord struct {
	BaseModel
	UserID uuid.UUID `gorm:"index"`

	ProviderEventID  string `gorm:"index"`
	ProviderObjectID string `gorm:"index"` // payment intent id

	AmountMinor int64  // e.g. 999 = $9.99
	Currency    string `gorm:"size:3"`
	Status      string

	// Event time at the processor (unix seconds).
	OccurredAt int64

	// Raw processor object, kept for audit/reconciliation.
	Raw datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}

// InvoiceRecord is one paid invoice reported by the processor. Append-only.
type InvoiceRecord struct {
	BaseModel
	UserID uuid.UUID `gorm:"index"`

	ProviderEventID  string `gorm:"index"`
	ProviderObjectID string `gorm:"index"` // invoice id
	SubscriptionID   string `gorm:"index"`

	AmountMinor int64
	Currency    string `gorm:"size:3"`
	Status      string

	OccurredAt int64

	Raw datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
