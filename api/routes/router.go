package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tigraytip/storefront-backend/api/controllers"
	"github.com/tigraytip/storefront-backend/api/middleware"
	"github.com/tigraytip/storefront-backend/pkg/auth/session"
	"github.com/tigraytip/storefront-backend/pkg/config"
	"github.com/tigraytip/storefront-backend/pkg/logger"
	"github.com/tigraytip/storefront-backend/pkg/metrics"
	redisclient "github.com/tigraytip/storefront-backend/pkg/redis"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry
	Sessions session.AccessSessionChecker
	Redis    *redisclient.Client

	Health        *controllers.HealthController
	Auth          *controllers.AuthController
	Products      *controllers.ProductsController
	Cart          *controllers.CartController
	Orders        *controllers.OrdersController
	Wishlist      *controllers.WishlistController
	Reviews       *controllers.ReviewsController
	Addresses     *controllers.AddressesController
	Notifications *controllers.NotificationsController
}

// New assembles the HTTP router: public catalog and cart, authenticated
// account routes, and an admin group for the back office.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.Logging(deps.Logger, deps.Metrics))
	r.Use(chimiddleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", controllers.CartSessionHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, controllers.CartSessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(deps.Config.JWT, deps.Sessions, deps.Logger)
	requireAdmin := middleware.RequireAdmin(deps.Logger)
	loginLimit := middleware.RateLimit(deps.Redis, deps.Logger, "login", 10, time.Minute)

	r.Get("/healthz", deps.Health.Live)
	r.Get("/readyz", deps.Health.Ready)
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// public
		r.Group(func(r chi.Router) {
			r.With(loginLimit).Post("/auth/register", deps.Auth.Register)
			r.With(loginLimit).Post("/auth/login", deps.Auth.Login)
			r.Post("/auth/refresh", deps.Auth.Refresh)

			r.Get("/products", deps.Products.List)
			r.Get("/products/{productID}", deps.Products.Get)
			r.Get("/products/{productID}/reviews", deps.Reviews.ListByProduct)

			r.Get("/cart", deps.Cart.Get)
			r.Post("/cart/items", deps.Cart.AddItem)
			r.Put("/cart/items/{productID}", deps.Cart.UpdateQuantity)
			r.Delete("/cart/items/{productID}", deps.Cart.RemoveItem)
			r.Delete("/cart", deps.Cart.Clear)
		})

		// signed-in customers
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/auth/logout", deps.Auth.Logout)
			r.Get("/me", deps.Auth.Profile)
			r.Put("/me", deps.Auth.UpdateProfile)
			r.Put("/me/password", deps.Auth.ChangePassword)

			r.Post("/cart/sync", deps.Cart.Sync)
			r.Post("/cart/restore", deps.Cart.Restore)

			r.Post("/orders", deps.Orders.Place)
			r.Get("/orders", deps.Orders.List)
			r.Get("/orders/{orderID}", deps.Orders.Get)

			r.Get("/wishlist", deps.Wishlist.List)
			r.Get("/wishlist/ids", deps.Wishlist.IDs)
			r.Post("/wishlist", deps.Wishlist.Add)
			r.Delete("/wishlist/{productID}", deps.Wishlist.Remove)

			r.Post("/products/{productID}/reviews", deps.Reviews.Add)
			r.Put("/reviews/{reviewID}", deps.Reviews.Update)
			r.Delete("/reviews/{reviewID}", deps.Reviews.Delete)

			r.Get("/addresses", deps.Addresses.List)
			r.Post("/addresses", deps.Addresses.Create)
			r.Put("/addresses/{addressID}", deps.Addresses.Update)
			r.Delete("/addresses/{addressID}", deps.Addresses.Delete)
			r.Put("/addresses/{addressID}/default", deps.Addresses.SetDefault)
		})

		// back office
		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate, requireAdmin)

			r.Get("/products", deps.Products.AdminList)
			r.Post("/products", deps.Products.Create)
			r.Put("/products/{productID}", deps.Products.Update)
			r.Delete("/products/{productID}", deps.Products.Delete)

			r.Get("/orders", deps.Orders.AdminList)
			r.Get("/orders/feed", deps.Orders.Feed)
			r.Put("/orders/{orderID}/status", deps.Orders.UpdateStatus)

			r.Get("/notifications", deps.Notifications.List)
			r.Put("/notifications/{notificationID}/read", deps.Notifications.MarkRead)
			r.Put("/notifications/read-all", deps.Notifications.MarkAllRead)
		})
	})

	return r
}
