package infra

import (
	"log"
	"os"

	"github.com/stripe/stripe-go/v82/client"
)

// InitStripeClient builds the processor API client once per process. It is
// handed to the fx graph rather than stored in package state so tests can
// substitute fakes behind the gateway interface.
func InitStripeClient() *client.API {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		log.Println("STRIPE_SECRET_KEY is not set; processor calls will fail")
	}

	api := &client.API{}
	api.Init(key, nil)
	return api
}
