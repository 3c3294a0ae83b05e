package repositories

import (
	"context"

	"gorm.io/gorm"

	"vitalis/internal/models/db_models"
)

// ILedgerRepository appends immutable payment and invoice rows. There are no
// update or delete operations on purpose.
type ILedgerRepository interface {
	AppendPayment(ctx context.Context, record *db_models.PaymentRecord) error
	AppendInvoice(ctx context.Context, record *db_models.InvoiceRecord) error
}

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) ILedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) AppendPayment(ctx context.Context, record *db_models.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *LedgerRepository) AppendInvoice(ctx context.Context, record *db_models.InvoiceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
