package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/datatypes"

	"vitalis/internal/billing"
	"vitalis/internal/gateways"
	"vitalis/internal/models/db_models"
	"vitalis/internal/repositories"
	"vitalis/pkg/dedupe"
	"vitalis/pkg/utils"
)

type WebhookConfig struct {
	// SigningSecret authenticates deliveries. Missing secret is a deployment
	// fault: every delivery fails with ErrWebhookSecretMissing until fixed.
	SigningSecret string
}

// WebhookService verifies, dedupes and dispatches processor deliveries.
// Unrecognized event types return nil so the endpoint can ack them.
type WebhookService interface {
	Process(ctx context.Context, payload []byte, signature string) error
}

type webhookService struct {
	users   repositories.IUserRepository
	ledger  repositories.ILedgerRepository
	gateway gateways.BillingGateway
	deduper dedupe.EventDeduper
	cfg     WebhookConfig
	now     func() int64
}

func NewWebhookService(
	users repositories.IUserRepository,
	ledger repositories.ILedgerRepository,
	gateway gateways.BillingGateway,
	deduper dedupe.EventDeduper,
	cfg WebhookConfig,
) WebhookService {
	return &webhookService{
		users:   users,
		ledger:  ledger,
		gateway: gateway,
		deduper: deduper,
		cfg:     cfg,
		now:     utils.NowUnixSeconds,
	}
}

func (s *webhookService) Process(ctx context.Context, payload []byte, signature string) error {
	if s.cfg.SigningSecret == "" {
		return utils.ErrWebhookSecretMissing
	}

	// The only trusted-event constructor in the codebase. Nothing below this
	// line runs for a body that was not signed under our secret.
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.SigningSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrInvalidSignature, err)
	}

	applied, err := s.deduper.Applied(ctx, event.ID)
	if err != nil {
		// Fail open: the projector is last-wins with an event-time guard, so
		// a duplicate apply is harmless, while refusing deliveries on a
		// cache outage would stall billing sync.
		log.Printf("webhook: dedupe check failed for %s, processing anyway: %v", event.ID, err)
	} else if applied {
		log.Printf("webhook: duplicate delivery of %s (%s), skipping", event.ID, event.Type)
		return nil
	}

	if err := s.dispatch(ctx, &event); err != nil {
		return err
	}

	// Record the id only after the event is fully processed: a delivery that
	// failed above returns non-2xx and must stay eligible for redelivery.
	if err := s.deduper.MarkApplied(ctx, event.ID); err != nil {
		log.Printf("webhook: failed to record %s as applied: %v", event.ID, err)
	}
	return nil
}

func (s *webhookService) dispatch(ctx context.Context, event *stripe.Event) error {
	switch string(event.Type) {
	case billing.EventSubscriptionCreated, billing.EventSubscriptionUpdated:
		return s.projectSubscription(ctx, event)
	case billing.EventSubscriptionDeleted:
		return s.projectCancellation(ctx, event)
	case billing.EventInvoiceFailed:
		return s.markPaymentFailure(ctx, event)
	case billing.EventInvoicePaid:
		return s.appendInvoice(ctx, event)
	case billing.EventPaymentSucceeded:
		return s.appendPayment(ctx, event)
	default:
		log.Printf("webhook: ignoring unhandled event type %s (%s)", event.Type, event.ID)
		return nil
	}
}

func (s *webhookService) projectSubscription(ctx context.Context, event *stripe.Event) error {
	obj, err := billing.DecodeSubscription(event.Data.Raw)
	if err != nil {
		return err
	}

	user, err := s.resolveUser(ctx, obj.Customer)
	if err != nil {
		return err
	}
	if user == nil {
		log.Printf("webhook: no user for customer %s, acking %s", obj.Customer, event.ID)
		return nil
	}

	snap := billing.DeriveSnapshot(obj, event.Created, s.now())
	applied, err := s.users.ApplySnapshot(ctx, user.ID, snap)
	if err != nil {
		return fmt.Errorf("apply snapshot for user %s: %w", user.ID, err)
	}
	if !applied {
		log.Printf("webhook: event %s not applied for user %s (stored snapshot is newer or the user row is gone)", event.ID, user.ID)
	}
	return nil
}

func (s *webhookService) projectCancellation(ctx context.Context, event *stripe.Event) error {
	obj, err := billing.DecodeSubscription(event.Data.Raw)
	if err != nil {
		return err
	}

	user, err := s.resolveUser(ctx, obj.Customer)
	if err != nil {
		return err
	}
	if user == nil {
		log.Printf("webhook: no user for customer %s, acking %s", obj.Customer, event.ID)
		return nil
	}

	snap := billing.CanceledSnapshot(event.Created, s.now())
	applied, err := s.users.ApplySnapshot(ctx, user.ID, snap)
	if err != nil {
		return fmt.Errorf("apply canceled snapshot for user %s: %w", user.ID, err)
	}
	if !applied {
		log.Printf("webhook: cancellation %s not applied for user %s (stored snapshot is newer or the user row is gone)", event.ID, user.ID)
	}
	return nil
}

func (s *webhookService) markPaymentFailure(ctx context.Context, event *stripe.Event) error {
	obj, err := billing.DecodeInvoice(event.Data.Raw)
	if err != nil {
		return err
	}

	user, err := s.resolveUser(ctx, obj.Customer)
	if err != nil {
		return err
	}
	if user == nil {
		log.Printf("webhook: no user for customer %s, acking %s", obj.Customer, event.ID)
		return nil
	}

	// Partial projection: only the failure flag and timestamp move. No
	// ledger row for failures; the snapshot carries the signal.
	applied, err := s.users.MarkPaymentFailure(ctx, user.ID, event.Created, event.Created, s.now())
	if err != nil {
		return fmt.Errorf("mark payment failure for user %s: %w", user.ID, err)
	}
	if !applied {
		log.Printf("webhook: payment failure %s not applied for user %s (stored snapshot is newer or the user row is gone)", event.ID, user.ID)
	}
	return nil
}

func (s *webhookService) appendInvoice(ctx context.Context, event *stripe.Event) error {
	obj, err := billing.DecodeInvoice(event.Data.Raw)
	if err != nil {
		return err
	}

	user, err := s.resolveUser(ctx, obj.Customer)
	if err != nil {
		return err
	}
	if user == nil {
		log.Printf("webhook: no user for customer %s, acking %s", obj.Customer, event.ID)
		return nil
	}

	record := &db_models.InvoiceRecord{
		UserID:           user.ID,
		ProviderEventID:  event.ID,
		ProviderObjectID: obj.ID,
		SubscriptionID:   obj.Subscription,
		AmountMinor:      obj.AmountPaid,
		Currency:         obj.Currency,
		Status:           obj.Status,
		OccurredAt:       event.Created,
		Raw:              datatypes.JSON(event.Data.Raw),
	}
	if err := s.ledger.AppendInvoice(ctx, record); err != nil {
		return fmt.Errorf("append invoice %s for user %s: %w", obj.ID, user.ID, err)
	}
	return nil
}

func (s *webhookService) appendPayment(ctx context.Context, event *stripe.Event) error {
	obj, err := billing.DecodePaymentIntent(event.Data.Raw)
	if err != nil {
		return err
	}

	user, err := s.resolveUser(ctx, obj.Customer)
	if err != nil {
		return err
	}
	if user == nil {
		log.Printf("webhook: no user for customer %s, acking %s", obj.Customer, event.ID)
		return nil
	}

	record := &db_models.PaymentRecord{
		UserID:           user.ID,
		ProviderEventID:  event.ID,
		ProviderObjectID: obj.ID,
		AmountMinor:      obj.Amount,
		Currency:         obj.Currency,
		Status:           obj.Status,
		OccurredAt:       event.Created,
		Raw:              datatypes.JSON(event.Data.Raw),
	}
	if err := s.ledger.AppendPayment(ctx, record); err != nil {
		return fmt.Errorf("append payment %s for user %s: %w", obj.ID, user.ID, err)
	}
	return nil
}

// resolveUser maps a billing customer id to the user record: the stored
// stripe_customer_id column first (one indexed query, the common case), then
// the customer's metadata at the processor as backstop. Returns (nil, nil)
// when neither side knows the customer; test-mode and malformed deliveries
// must never crash the pipeline.
func (s *webhookService) resolveUser(ctx context.Context, customerID string) (*db_models.User, error) {
	if customerID == "" {
		return nil, nil
	}

	user, err := s.users.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("lookup user by customer %s: %w", customerID, err)
	}
	if user != nil {
		return user, nil
	}

	userIDStr, err := s.gateway.CustomerUserID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if userIDStr == "" {
		return nil, nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		log.Printf("webhook: customer %s carries malformed userId metadata %q", customerID, userIDStr)
		return nil, nil
	}
	return s.users.GetByID(ctx, userID)
}
