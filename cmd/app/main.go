package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"vitalis/cmd/fx/billing_fx"
	"vitalis/cmd/fx/db_fx"
	"vitalis/cmd/fx/redis_fx"
	"vitalis/cmd/fx/stripe_fx"
	"vitalis/internal/api/controllers"
	"vitalis/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	app := fx.New(
		db_fx.Module,
		redis_fx.Module,
		stripe_fx.Module,
		billing_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	webhookController *controllers.WebhookController,
	subscriptionController *controllers.SubscriptionController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	// The processor's delivery contract and the dashboard both expect 405
	// for wrong verbs, not 404.
	r.HandleMethodNotAllowed = true

	RegisterRoutes(r, webhookController, subscriptionController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	webhookController *controllers.WebhookController,
	subscriptionController *controllers.SubscriptionController) {

	r.POST("/webhook", webhookController.Handle)

	r.POST("/update-subscription", subscriptionController.UpdateSubscription)
	r.GET("/subscription/:userId", subscriptionController.GetSubscription)
}
