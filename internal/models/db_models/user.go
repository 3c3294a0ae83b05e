package db_models

// User is the application's entitlement record. Billing code only touches
// StripeCustomerID and the embedded snapshot; every other column belongs to
// the rest of the app.
type User struct {
	BaseModel
	Name  string
	Email string `gorm:"unique"`

	// Set when the billing customer is created at signup.
	StripeCustomerID string `gorm:"index"`

	Subscription SubscriptionSnapshot `gorm:"embedded;embeddedPrefix:sub_"`
}
