package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"vitalis/internal/billing"
	"vitalis/internal/gateways"
	"vitalis/internal/models/response_models"
	"vitalis/internal/repositories"
	"vitalis/pkg/utils"
)

const (
	ActionUpgrade   = "upgrade"
	ActionDowngrade = "downgrade"
	ActionCancel    = "cancel"
)

// SubscriptionService handles user-initiated plan changes and cancellation.
// Mutations apply at the processor first, then re-project the snapshot from
// the processor's response through the same derivation the webhook path uses.
type SubscriptionService interface {
	Mutate(ctx context.Context, userID, action, newPriceID string) (*response_models.SubscriptionResponse, error)
	GetSnapshot(ctx context.Context, userID string) (*response_models.SubscriptionResponse, error)
}

type subscriptionService struct {
	users   repositories.IUserRepository
	gateway gateways.BillingGateway
	now     func() int64
}

func NewSubscriptionService(users repositories.IUserRepository, gateway gateways.BillingGateway) SubscriptionService {
	return &subscriptionService{
		users:   users,
		gateway: gateway,
		now:     utils.NowUnixSeconds,
	}
}

func (s *subscriptionService) Mutate(ctx context.Context, userID, action, newPriceID string) (*response_models.SubscriptionResponse, error) {
	if userID == "" {
		return nil, utils.ErrUserIDRequired
	}
	switch action {
	case ActionCancel:
		// newPriceID is tolerated here; cancel never uses it.
	case ActionUpgrade, ActionDowngrade:
		if newPriceID == "" {
			return nil, utils.ErrPriceIDRequired
		}
	default:
		return nil, utils.ErrInvalidAction
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	if user.StripeCustomerID == "" {
		return nil, utils.ErrCustomerNotLinked
	}
	if user.Subscription.SubscriptionID == nil || *user.Subscription.SubscriptionID == "" {
		return nil, utils.ErrSubscriptionNotFound
	}
	subscriptionID := *user.Subscription.SubscriptionID

	var obj *billing.SubscriptionObject
	switch action {
	case ActionCancel:
		obj, err = s.gateway.CancelAtPeriodEnd(ctx, subscriptionID)
	default:
		// Upgrade and downgrade are the same protocol call; the label only
		// changes the UI copy. No price-direction check server-side.
		obj, err = s.gateway.ChangePlan(ctx, subscriptionID, newPriceID)
	}
	if err != nil {
		return nil, err
	}

	// Re-project synchronously from the processor's response. Processing
	// time stands in for event time: a direct mutation is by definition the
	// newest state we have seen.
	now := s.now()
	snap := billing.DeriveSnapshot(obj, now, now)
	applied, err := s.users.ApplySnapshot(ctx, user.ID, snap)
	if err != nil {
		return nil, err
	}
	if !applied {
		log.Printf("mutation: snapshot for user %s not applied during %s (superseded by a newer event or the user row is gone)", user.ID, action)
	}

	resp := response_models.SubscriptionFromSnapshot(snap)
	return &resp, nil
}

func (s *subscriptionService) GetSnapshot(ctx context.Context, userID string) (*response_models.SubscriptionResponse, error) {
	if userID == "" {
		return nil, utils.ErrUserIDRequired
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	if !user.Subscription.Populated() {
		return nil, utils.ErrSubscriptionNotFound
	}
	resp := response_models.SubscriptionFromSnapshot(user.Subscription)
	return &resp, nil
}
