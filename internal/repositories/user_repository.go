package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vitalis/internal/models/db_models"
)

type IUserRepository interface {
	// GetByID returns (nil, nil) when the user does not exist.
	GetByID(ctx context.Context, userID uuid.UUID) (*db_models.User, error)

	// GetByStripeCustomerID returns (nil, nil) when no user carries the
	// billing customer id.
	GetByStripeCustomerID(ctx context.Context, customerID string) (*db_models.User, error)

	// ApplySnapshot atomically replaces the user's snapshot with a single
	// field-level update. The write is conditional on the stored event time:
	// stale events (older than what is already projected) are skipped and
	// reported as applied=false.
	ApplySnapshot(ctx context.Context, userID uuid.UUID, snap db_models.SubscriptionSnapshot) (applied bool, err error)

	// MarkPaymentFailure is the partial projection for payment-failure
	// events: it touches only the failure flag, failure time and the
	// projector bookkeeping columns, leaving the rest of the snapshot as-is.
	MarkPaymentFailure(ctx context.Context, userID uuid.UUID, failedAt, eventAt, now int64) (applied bool, err error)
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) IUserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*db_models.User, error) {
	var user db_models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*db_models.User, error) {
	var user db_models.User
	err := r.db.WithContext(ctx).First(&user, "stripe_customer_id = ?", customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ApplySnapshot(ctx context.Context, userID uuid.UUID, snap db_models.SubscriptionSnapshot) (bool, error) {
	res := r.db.WithContext(ctx).Model(&db_models.User{}).
		Where("id = ? AND sub_event_at <= ?", userID, snap.EventAt).
		Updates(map[string]interface{}{
			"sub_subscription_id":      snap.SubscriptionID,
			"sub_status":               snap.Status,
			"sub_plan_id":              snap.PlanID,
			"sub_plan_name":            snap.PlanName,
			"sub_current_period_start": snap.CurrentPeriodStart,
			"sub_current_period_end":   snap.CurrentPeriodEnd,
			"sub_cancel_at_period_end": snap.CancelAtPeriodEnd,
			"sub_trial_end":            snap.TrialEnd,
			"sub_canceled_at":          snap.CanceledAt,
			"sub_payment_failed":       snap.PaymentFailed,
			"sub_last_payment_failure": snap.LastPaymentFailure,
			"sub_event_at":             snap.EventAt,
			"sub_updated_at":           snap.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepository) MarkPaymentFailure(ctx context.Context, userID uuid.UUID, failedAt, eventAt, now int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&db_models.User{}).
		Where("id = ? AND sub_event_at <= ?", userID, eventAt).
		Updates(map[string]interface{}{
			"sub_payment_failed":       true,
			"sub_last_payment_failure": failedAt,
			"sub_event_at":             eventAt,
			"sub_updated_at":           now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
