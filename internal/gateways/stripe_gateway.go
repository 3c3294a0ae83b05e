package gateways

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"vitalis/internal/billing"
	"vitalis/pkg/utils"
)

// BillingGateway is the processor surface the services depend on. Tests
// substitute a fake; production wires the Stripe implementation below.
type BillingGateway interface {
	// CustomerUserID reads the internal user id stored on the billing
	// customer's metadata at customer-creation time. Returns "" when the
	// customer or the metadata key is absent; that is the caller's call to
	// treat as fatal or not.
	CustomerUserID(ctx context.Context, customerID string) (string, error)

	// CancelAtPeriodEnd flags the subscription to lapse at period end. The
	// status is left untouched; the user keeps access until then.
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*billing.SubscriptionObject, error)

	// ChangePlan swaps the subscription's single line item to newPriceID and
	// asks the processor to prorate. Upgrade and downgrade are the same call.
	ChangePlan(ctx context.Context, subscriptionID, newPriceID string) (*billing.SubscriptionObject, error)
}

// customerUserIDKey is the metadata key written when the billing customer is
// created at signup.
const customerUserIDKey = "userId"

type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(api *client.API) BillingGateway {
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CustomerUserID(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{Params: stripe.Params{Context: ctx}}
	cust, err := g.api.Customers.Get(customerID, params)
	if err != nil {
		if isResourceMissing(err) {
			return "", nil
		}
		return "", fmt.Errorf("%w: get customer %s: %v", utils.ErrUpstream, customerID, err)
	}
	return cust.Metadata[customerUserIDKey], nil
}

func (g *StripeGateway) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*billing.SubscriptionObject, error) {
	params := &stripe.SubscriptionParams{
		Params:            stripe.Params{Context: ctx},
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	sub, err := g.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		if isResourceMissing(err) {
			return nil, utils.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("%w: cancel subscription %s: %v", utils.ErrUpstream, subscriptionID, err)
	}
	return subscriptionObjectFromAPI(sub), nil
}

func (g *StripeGateway) ChangePlan(ctx context.Context, subscriptionID, newPriceID string) (*billing.SubscriptionObject, error) {
	current, err := g.api.Subscriptions.Get(subscriptionID, &stripe.SubscriptionParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		if isResourceMissing(err) {
			return nil, utils.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("%w: get subscription %s: %v", utils.ErrUpstream, subscriptionID, err)
	}
	if current.Items == nil || len(current.Items.Data) == 0 {
		return nil, fmt.Errorf("%w: subscription %s has no line item", utils.ErrUpstream, subscriptionID)
	}

	params := &stripe.SubscriptionParams{
		Params: stripe.Params{Context: ctx},
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(current.Items.Data[0].ID),
				Price: stripe.String(newPriceID),
			},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	}
	sub, err := g.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: update subscription %s: %v", utils.ErrUpstream, subscriptionID, err)
	}
	return subscriptionObjectFromAPI(sub), nil
}

// subscriptionObjectFromAPI maps an SDK subscription onto the same local
// object the webhook decode produces, so both paths feed one projection.
func subscriptionObjectFromAPI(sub *stripe.Subscription) *billing.SubscriptionObject {
	obj := &billing.SubscriptionObject{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		TrialEnd:          sub.TrialEnd,
		CanceledAt:        sub.CanceledAt,
	}
	if sub.Customer != nil {
		obj.Customer = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		mapped := billing.SubscriptionItem{
			ID:                 item.ID,
			CurrentPeriodStart: item.CurrentPeriodStart,
			CurrentPeriodEnd:   item.CurrentPeriodEnd,
		}
		if item.Price != nil {
			mapped.Price = billing.Price{
				ID:       item.Price.ID,
				Nickname: item.Price.Nickname,
			}
			if item.Price.Product != nil {
				mapped.Price.Product = item.Price.Product.ID
			}
		}
		obj.Items.Data = []billing.SubscriptionItem{mapped}
	}
	return obj
}

func isResourceMissing(err error) bool {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		return sErr.Code == stripe.ErrorCodeResourceMissing
	}
	return false
}
