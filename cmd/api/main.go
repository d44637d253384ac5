package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tigraytip/storefront-backend/api/controllers"
	"github.com/tigraytip/storefront-backend/api/middleware"
	"github.com/tigraytip/storefront-backend/api/routes"
	"github.com/tigraytip/storefront-backend/internal/addresses"
	"github.com/tigraytip/storefront-backend/internal/auth"
	"github.com/tigraytip/storefront-backend/internal/cart"
	"github.com/tigraytip/storefront-backend/internal/notifications"
	"github.com/tigraytip/storefront-backend/internal/orders"
	"github.com/tigraytip/storefront-backend/internal/products"
	"github.com/tigraytip/storefront-backend/internal/reviews"
	"github.com/tigraytip/storefront-backend/internal/wishlist"
	"github.com/tigraytip/storefront-backend/pkg/auth/session"
	"github.com/tigraytip/storefront-backend/pkg/config"
	"github.com/tigraytip/storefront-backend/pkg/db"
	"github.com/tigraytip/storefront-backend/pkg/logger"
	"github.com/tigraytip/storefront-backend/pkg/metrics"
	"github.com/tigraytip/storefront-backend/pkg/migrate"
	"github.com/tigraytip/storefront-backend/pkg/pubsub"
	"github.com/tigraytip/storefront-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	pricing, err := cart.PricingFromConfig(cfg.Cart)
	if err != nil {
		logg.Error(context.Background(), "invalid cart pricing config", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	userRepo := auth.NewRepository(dbClient.DB())
	authService, err := auth.NewService(auth.ServiceParams{
		Repo:     userRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Admin:    cfg.Admin,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	publisher, err := orders.NewPubSubPublisher(pubsubClient.OrdersPublisher())
	if err != nil {
		logg.Error(context.Background(), "failed to create order publisher", err)
		os.Exit(1)
	}
	orderRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:      orderRepo,
		Publisher: publisher,
		Pricing:   pricing,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	orderStream, err := orders.NewStream(pubsubClient.OrdersSubscription(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order stream", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(dbClient.DB()),
		ProductRepo:  productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		ReviewRepo: reviews.NewRepository(dbClient.DB()),
		UserRepo:   userRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	addressService, err := addresses.NewService(addresses.ServiceParams{
		Repo: addresses.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create addresses service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notifications.ServiceParams{
		Repo: notifications.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	cartDeps := cart.SessionDeps{
		Store:       redisClient,
		Mirror:      cart.NewRepository(dbClient.DB()),
		Identity:    middleware.ContextIdentity{},
		Logger:      logg,
		Pricing:     pricing,
		TTL:         cfg.Cart.SessionTTL,
		SyncTimeout: cfg.Cart.SyncTimeout,
	}
	cartController := controllers.NewCartController(cartDeps, productService, logg)

	handler := routes.New(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Metrics:  httpMetrics,
		Registry: registry,
		Sessions: sessionManager,
		Redis:    redisClient,

		Health:        controllers.NewHealthController(dbClient, redisClient, pubsubClient, logg),
		Auth:          controllers.NewAuthController(authService, logg),
		Products:      controllers.NewProductsController(productService, logg),
		Cart:          cartController,
		Orders:        controllers.NewOrdersController(orderService, orderRepo, orderStream, cartController, logg),
		Wishlist:      controllers.NewWishlistController(wishlistService, logg),
		Reviews:       controllers.NewReviewsController(reviewService, logg),
		Addresses:     controllers.NewAddressesController(addressService, logg),
		Notifications: controllers.NewNotificationsController(notificationService, logg),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	// one Receive loop per process; SSE feeds attach as fan-out subscribers
	go func() {
		if err := orderStream.Run(ctx); err != nil {
			logg.Error(ctx, "orders stream stopped unexpectedly", err)
		}
	}()

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
