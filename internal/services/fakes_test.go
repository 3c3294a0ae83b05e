package services

import (
	"context"

	"github.com/google/uuid"

	"vitalis/internal/billing"
	"vitalis/internal/models/db_models"
)

type appliedSnapshot struct {
	userID uuid.UUID
	snap   db_models.SubscriptionSnapshot
}

type failureMark struct {
	userID                 uuid.UUID
	failedAt, eventAt, now int64
}

type fakeUserRepo struct {
	byID       map[uuid.UUID]*db_models.User
	byCustomer map[string]*db_models.User

	applyStale bool // simulate the event-time guard rejecting the write
	err        error

	snapshots []appliedSnapshot
	failures  []failureMark
}

func newFakeUserRepo(users ...*db_models.User) *fakeUserRepo {
	r := &fakeUserRepo{
		byID:       make(map[uuid.UUID]*db_models.User),
		byCustomer: make(map[string]*db_models.User),
	}
	for _, u := range users {
		r.byID[u.ID] = u
		if u.StripeCustomerID != "" {
			r.byCustomer[u.StripeCustomerID] = u
		}
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*db_models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byID[userID], nil
}

func (r *fakeUserRepo) GetByStripeCustomerID(_ context.Context, customerID string) (*db_models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byCustomer[customerID], nil
}

func (r *fakeUserRepo) ApplySnapshot(_ context.Context, userID uuid.UUID, snap db_models.SubscriptionSnapshot) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if r.applyStale {
		return false, nil
	}
	r.snapshots = append(r.snapshots, appliedSnapshot{userID: userID, snap: snap})
	return true, nil
}

func (r *fakeUserRepo) MarkPaymentFailure(_ context.Context, userID uuid.UUID, failedAt, eventAt, now int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if r.applyStale {
		return false, nil
	}
	r.failures = append(r.failures, failureMark{userID: userID, failedAt: failedAt, eventAt: eventAt, now: now})
	return true, nil
}

type fakeLedger struct {
	payments []*db_models.PaymentRecord
	invoices []*db_models.InvoiceRecord
	err      error
}

func (l *fakeLedger) AppendPayment(_ context.Context, record *db_models.PaymentRecord) error {
	if l.err != nil {
		return l.err
	}
	l.payments = append(l.payments, record)
	return nil
}

func (l *fakeLedger) AppendInvoice(_ context.Context, record *db_models.InvoiceRecord) error {
	if l.err != nil {
		return l.err
	}
	l.invoices = append(l.invoices, record)
	return nil
}

type planChange struct {
	subscriptionID string
	newPriceID     string
}

type fakeGateway struct {
	metadataUserID map[string]string // customer id -> userId metadata
	sub            *billing.SubscriptionObject
	err            error

	cancelCalls []string
	planChanges []planChange
}

func (g *fakeGateway) CustomerUserID(_ context.Context, customerID string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.metadataUserID[customerID], nil
}

func (g *fakeGateway) CancelAtPeriodEnd(_ context.Context, subscriptionID string) (*billing.SubscriptionObject, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.cancelCalls = append(g.cancelCalls, subscriptionID)
	return g.sub, nil
}

func (g *fakeGateway) ChangePlan(_ context.Context, subscriptionID, newPriceID string) (*billing.SubscriptionObject, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.planChanges = append(g.planChanges, planChange{subscriptionID: subscriptionID, newPriceID: newPriceID})
	return g.sub, nil
}

type erroringDeduper struct {
	err error
}

func (d erroringDeduper) Applied(_ context.Context, _ string) (bool, error) {
	return false, d.err
}

func (d erroringDeduper) MarkApplied(_ context.Context, _ string) error {
	return d.err
}
