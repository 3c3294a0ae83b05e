package stripe_fx

import (
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/fx"
	"vitalis/internal/gateways"
	"vitalis/internal/infra"
)

var Module = fx.Provide(
	provideStripeAPI, provideGateway,
)

func provideStripeAPI() *client.API {
	return infra.InitStripeClient()
}

func provideGateway(api *client.API) gateways.BillingGateway {
	return gateways.NewStripeGateway(api)
}
