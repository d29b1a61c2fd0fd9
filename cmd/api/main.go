package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/teclegacy/marketplace-backend/api/routes"
	"github.com/teclegacy/marketplace-backend/internal/cart"
	"github.com/teclegacy/marketplace-backend/internal/catalog"
	"github.com/teclegacy/marketplace-backend/internal/chatbot"
	"github.com/teclegacy/marketplace-backend/internal/checkout"
	"github.com/teclegacy/marketplace-backend/internal/orders"
	"github.com/teclegacy/marketplace-backend/pkg/config"
	"github.com/teclegacy/marketplace-backend/pkg/db"
	"github.com/teclegacy/marketplace-backend/pkg/logger"
	"github.com/teclegacy/marketplace-backend/pkg/migrate"
	"github.com/teclegacy/marketplace-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis backs the checkout single-flight guard. Without it the service
	// still runs; double submissions are then only bounded by the store.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, checkout single-flight guard disabled")
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	cartService, err := cart.NewService(cartRepo, dbClient, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := newCheckoutService(cfg, cartRepo, ordersRepo, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	resolver, err := chatbot.NewResolver(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create chatbot resolver", err)
		os.Exit(1)
	}
	chatbotService, err := chatbot.NewService(resolver, chatbot.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create chatbot service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	var redisPinger db.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisPinger,
			catalogRepo, cartService, checkoutService, ordersService, chatbotService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func newCheckoutService(cfg *config.Config, cartRepo cart.Repository, ordersRepo orders.Repository, dbClient *db.Client, redisClient *redis.Client) (checkout.Service, error) {
	if redisClient == nil {
		return checkout.NewService(cartRepo, ordersRepo, dbClient, nil, cfg.Checkout.SubmitLockTTL)
	}
	return checkout.NewService(cartRepo, ordersRepo, dbClient, redisClient, cfg.Checkout.SubmitLockTTL)
}
