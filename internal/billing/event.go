package billing

import (
	"encoding/json"
	"fmt"

	"vitalis/pkg/utils"
)

// Processor event types the dispatcher routes. Anything else is acked as a
// no-op.
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventInvoicePaid         = "invoice.payment_succeeded"
	EventInvoiceFailed       = "invoice.payment_failed"
	EventPaymentSucceeded    = "payment_intent.succeeded"
)

// SubscriptionObject is our own decode target for the processor's
// subscription payloads. The SDK's structs track whatever API version the
// SDK release pins, while webhook payloads follow the account's version;
// decoding into local structs keeps the wire contract in one place.
type SubscriptionObject struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`

	// Present on older API versions; newer ones carry the period on the
	// subscription item instead. Item values win when both are set.
	CurrentPeriodStart int64 `json:"current_period_start"`
	CurrentPeriodEnd   int64 `json:"current_period_end"`

	TrialEnd   int64 `json:"trial_end"`
	CanceledAt int64 `json:"canceled_at"`

	Items SubscriptionItemList `json:"items"`
}

type SubscriptionItemList struct {
	Data []SubscriptionItem `json:"data"`
}

type SubscriptionItem struct {
	ID                 string `json:"id"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	Price              Price  `json:"price"`
}

type Price struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Product  string `json:"product"`
}

// FirstItem returns the subscription's single line item, or nil.
func (s *SubscriptionObject) FirstItem() *SubscriptionItem {
	if len(s.Items.Data) == 0 {
		return nil
	}
	return &s.Items.Data[0]
}

// PeriodStart resolves the billing period start, item-level first.
func (s *SubscriptionObject) PeriodStart() int64 {
	if item := s.FirstItem(); item != nil && item.CurrentPeriodStart > 0 {
		return item.CurrentPeriodStart
	}
	return s.CurrentPeriodStart
}

// PeriodEnd resolves the billing period end, item-level first.
func (s *SubscriptionObject) PeriodEnd() int64 {
	if item := s.FirstItem(); item != nil && item.CurrentPeriodEnd > 0 {
		return item.CurrentPeriodEnd
	}
	return s.CurrentPeriodEnd
}

// InvoiceObject is the decode target for invoice payloads.
type InvoiceObject struct {
	ID           string `json:"id"`
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
	AmountPaid   int64  `json:"amount_paid"`
	AmountDue    int64  `json:"amount_due"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	Created      int64  `json:"created"`
}

// PaymentIntentObject is the decode target for payment-intent payloads.
type PaymentIntentObject struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Created  int64  `json:"created"`
}

// DecodeSubscription parses a subscription payload and fails closed when the
// fields the projector depends on are missing. A payload we cannot attribute
// to a customer must never be projected with zero values.
func DecodeSubscription(raw []byte) (*SubscriptionObject, error) {
	var obj SubscriptionObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: subscription object: %v", utils.ErrInvalidPayload, err)
	}
	if obj.ID == "" {
		return nil, fmt.Errorf("%w: subscription object missing id", utils.ErrInvalidPayload)
	}
	if obj.Customer == "" {
		return nil, fmt.Errorf("%w: subscription %s missing customer", utils.ErrInvalidPayload, obj.ID)
	}
	return &obj, nil
}

// DecodeInvoice parses an invoice payload, requiring id and customer.
func DecodeInvoice(raw []byte) (*InvoiceObject, error) {
	var obj InvoiceObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: invoice object: %v", utils.ErrInvalidPayload, err)
	}
	if obj.ID == "" {
		return nil, fmt.Errorf("%w: invoice object missing id", utils.ErrInvalidPayload)
	}
	if obj.Customer == "" {
		return nil, fmt.Errorf("%w: invoice %s missing customer", utils.ErrInvalidPayload, obj.ID)
	}
	return &obj, nil
}

// DecodePaymentIntent parses a payment-intent payload, requiring id and
// customer.
func DecodePaymentIntent(raw []byte) (*PaymentIntentObject, error) {
	var obj PaymentIntentObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: payment intent object: %v", utils.ErrInvalidPayload, err)
	}
	if obj.ID == "" {
		return nil, fmt.Errorf("%w: payment intent object missing id", utils.ErrInvalidPayload)
	}
	if obj.Customer == "" {
		return nil, fmt.Errorf("%w: payment intent %s missing customer", utils.ErrInvalidPayload, obj.ID)
	}
	return &obj, nil
}
