package utils

import "errors"

// Billing-sync error taxonomy. Controllers translate these to HTTP; services
// never touch status codes.
var (
	// Deployment faults. Surface as 500 and never process the request.
	ErrWebhookSecretMissing = errors.New("webhook secret not configured")

	// The request body was not signed under the configured secret. Rejects
	// the single request; no state may change after this.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// A handled event type carried a payload missing required fields. The
	// caller returns non-2xx so the processor redelivers.
	ErrInvalidPayload = errors.New("invalid event payload")

	// Mutation-path not-found conditions (404). The webhook path recovers
	// the same conditions locally because its contract requires an ack.
	ErrUserNotFound         = errors.New("user not found")
	ErrCustomerNotLinked    = errors.New("user has no billing customer")
	ErrSubscriptionNotFound = errors.New("no active subscription on file")

	// External processor call failed. No automatic retry.
	ErrUpstream = errors.New("payment provider request failed")
)

// Mutation input validation errors. Each carries the exact string returned
// to the client.
var (
	ErrUserIDRequired  = errors.New("userId is required")
	ErrInvalidAction   = errors.New("action must be one of upgrade, downgrade, cancel")
	ErrPriceIDRequired = errors.New("newPriceId is required for upgrade and downgrade")
)

// IsValidationError reports whether err is a mutation input error (400).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUserIDRequired) ||
		errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, ErrPriceIDRequired)
}

// IsNotFoundError reports whether err is a request-scoped not-found (404).
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCustomerNotLinked) ||
		errors.Is(err, ErrSubscriptionNotFound)
}
