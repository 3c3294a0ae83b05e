package billing_fx

import (
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"vitalis/internal/api/controllers"
	"vitalis/internal/gateways"
	"vitalis/internal/repositories"
	"vitalis/internal/services"
	"vitalis/pkg/dedupe"
)

var Module = fx.Provide(
	provideUserRepository,
	provideLedgerRepository,
	provideWebhookService,
	provideSubscriptionService,
	provideWebhookController,
	provideSubscriptionController,
)

func devMode() bool {
	return os.Getenv("APP_ENV") == "development"
}

func provideUserRepository(db *gorm.DB) repositories.IUserRepository {
	return repositories.NewUserRepository(db)
}

func provideLedgerRepository(db *gorm.DB) repositories.ILedgerRepository {
	return repositories.NewLedgerRepository(db)
}

func provideWebhookService(
	users repositories.IUserRepository,
	ledger repositories.ILedgerRepository,
	gateway gateways.BillingGateway,
	deduper dedupe.EventDeduper,
) services.WebhookService {
	cfg := services.WebhookConfig{
		SigningSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
	return services.NewWebhookService(users, ledger, gateway, deduper, cfg)
}

func provideSubscriptionService(
	users repositories.IUserRepository,
	gateway gateways.BillingGateway,
) services.SubscriptionService {
	return services.NewSubscriptionService(users, gateway)
}

func provideWebhookController(webhookService services.WebhookService) *controllers.WebhookController {
	return controllers.NewWebhookController(webhookService, devMode())
}

func provideSubscriptionController(subscriptionService services.SubscriptionService) *controllers.SubscriptionController {
	return controllers.NewSubscriptionController(subscriptionService, devMode())
}
