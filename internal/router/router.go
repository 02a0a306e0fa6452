package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warteg-pro/api/internal/config"
	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/handler"
	"github.com/warteg-pro/api/internal/insight"
	mw "github.com/warteg-pro/api/internal/middleware"
	"github.com/warteg-pro/api/internal/service"
	"github.com/warteg-pro/api/internal/ws"
)

// Services bundles everything the routes are wired to.
type Services struct {
	Catalog   *service.CatalogService
	Cart      *service.CartService
	Orders    *service.OrderService
	Inventory *service.InventoryService
	Reviews   *service.ReviewService
	Sessions  *service.SessionService
	Users     *service.UserService
	Reports   *service.ReportService
	Insights  *insight.Adapter
	Hub       *ws.Hub
}

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, svc Services) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.Metrics)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	authn := mw.Authenticate(cfg.Auth.JWTSecret, svc.Sessions)
	customerOnly := mw.RequireRole(enum.UserRoleCustomer)
	staffOnly := mw.RequireRole(enum.UserRoleKitchen, enum.UserRoleAdmin)

	authHandler := handler.NewAuthHandler(svc.Sessions, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	menuHandler := handler.NewMenuHandler(svc.Catalog)
	cartHandler := handler.NewCartHandler(svc.Cart)
	orderHandler := handler.NewOrderHandler(svc.Orders, svc.Hub)
	inventoryHandler := handler.NewInventoryHandler(svc.Inventory)
	reviewHandler := handler.NewReviewHandler(svc.Reviews)
	userHandler := handler.NewUserHandler(svc.Users)
	reportsHandler := handler.NewReportsHandler(svc.Reports)
	insightHandler := handler.NewInsightHandler(svc.Insights, handler.ServiceSources{Inv: svc.Inventory, Orders: svc.Orders})

	r.Route("/auth", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(authn)
			authHandler.RegisterSessionRoutes(r)
		})
	})

	r.Route("/menu", menuHandler.RegisterRoutes)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(svc.Hub, cfg.Auth.JWTSecret, svc.Sessions, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Route("/orders", func(r chi.Router) {
			r.With(customerOnly).Post("/", orderHandler.Checkout)
			orderHandler.RegisterRoutes(r)
		})

		// Customer routes
		r.Group(func(r chi.Router) {
			r.Use(customerOnly)
			r.Route("/cart", cartHandler.RegisterRoutes)
			r.Route("/reviews", reviewHandler.RegisterRoutes)
			r.Get("/profile", reportsHandler.Profile)
		})

		// Kitchen + admin routes
		r.Group(func(r chi.Router) {
			r.Use(staffOnly)
			r.Route("/inventory", inventoryHandler.RegisterRoutes)
			r.Route("/kitchen", func(r chi.Router) {
				orderHandler.RegisterKitchenRoutes(r)
				r.Group(func(r chi.Router) {
					r.Use(mw.RequireRole(enum.UserRoleKitchen))
					r.Post("/reports", inventoryHandler.RecordUsage)
					r.Post("/reports/text", inventoryHandler.RecordUsageText)
				})
			})
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin))
			r.Route("/menu", menuHandler.RegisterAdminRoutes)
			r.Route("/inventory", inventoryHandler.RegisterAdminRoutes)
			r.Get("/reports", inventoryHandler.Reports)
			r.Route("/orders", orderHandler.RegisterAdminRoutes)
			r.Get("/reviews", reviewHandler.List)
			r.Route("/users", userHandler.RegisterRoutes)
			r.Get("/dashboard", reportsHandler.Dashboard)
			r.Route("/insights", insightHandler.RegisterRoutes)
		})
	})

	return r
}
