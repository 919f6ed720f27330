package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/joushfoods/storefront-service/internal/api/handlers"
	"github.com/joushfoods/storefront-service/internal/api/middleware"
	"github.com/joushfoods/storefront-service/internal/cache"
	"github.com/joushfoods/storefront-service/internal/cart"
	"github.com/joushfoods/storefront-service/internal/config"
	"github.com/joushfoods/storefront-service/internal/repository"
	"github.com/joushfoods/storefront-service/internal/service"
)

// NewRouter wires repositories, services and handlers into the HTTP
// surface of the storefront.
func NewRouter(db *sql.DB, cfg config.Config) http.Handler {
	productRepo := repository.NewProductRepo(db)
	couponRepo := repository.NewCouponRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	userRepo := repository.NewUserRepo(db)

	couponCache := cache.NewCouponCache(5 * time.Minute)
	cartStore := cart.NewMemoryStore()

	couponSvc := service.NewCouponService(couponRepo, couponCache)
	checkoutSvc := service.NewCheckoutService(productRepo, orderRepo, couponSvc, cartStore)
	authSvc := service.NewAuthService(customerRepo, cfg)

	productHandler := handlers.NewProductHandler(productRepo)
	couponHandler := handlers.NewCouponHandler(couponRepo, couponSvc, couponCache)
	orderHandler := handlers.NewOrderHandler(orderRepo, productRepo, checkoutSvc)
	customerHandler := handlers.NewCustomerHandler(authSvc)
	userHandler := handlers.NewUserHandler(userRepo)
	cartHandler := handlers.NewCartHandler(cartStore, productRepo)
	adminHandler := handlers.NewAdminHandler(authSvc)

	r := chi.NewRouter()

	// browser clients live on other origins; Authorization must be allowed
	// through for the admin session token
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","timestamp":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// public storefront
		r.Get("/products", productHandler.List)
		r.Get("/products/{slugOrId}", productHandler.Get)

		r.Post("/customers/register", customerHandler.Register)
		r.Post("/customers/login", customerHandler.Login)

		r.Post("/coupons/validate", couponHandler.Validate)

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", cartHandler.Create)
			r.Get("/{id}", cartHandler.Get)
			r.Delete("/{id}", cartHandler.Clear)
			r.Post("/{id}/items", cartHandler.AddItem)
			r.Put("/{id}/items/{productId}", cartHandler.SetQuantity)
			r.Delete("/{id}/items/{productId}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", orderHandler.Checkout)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)

			// everything else is session-token gated
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(authSvc))

				r.Post("/products", productHandler.Create)
				r.Put("/products/{id}", productHandler.Update)
				r.Delete("/products/{id}", productHandler.Delete)

				r.Get("/orders", orderHandler.List)
				r.Post("/orders", orderHandler.Create)
				r.Get("/orders/{id}", orderHandler.Get)
				r.Put("/orders/{id}", orderHandler.Update)
				r.Delete("/orders/{id}", orderHandler.Delete)

				r.Get("/users", userHandler.List)
				r.Post("/users", userHandler.Create)
				r.Put("/users/{id}", userHandler.Update)
				r.Delete("/users/{id}", userHandler.Delete)

				r.Get("/coupons", couponHandler.List)
				r.Post("/coupons", couponHandler.Create)
				r.Get("/coupons/{id}", couponHandler.Get)
				r.Put("/coupons/{id}", couponHandler.Update)
				r.Patch("/coupons/{id}", couponHandler.Patch)
				r.Delete("/coupons/{id}", couponHandler.Delete)

				r.Post("/settings/password", adminHandler.ChangePassword)
			})
		})
	})

	return r
}
