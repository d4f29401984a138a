package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	admincontrollers "github.com/angelmondragon/storefront-backend/api/controllers/admin"
	authcontrollers "github.com/angelmondragon/storefront-backend/api/controllers/auth"
	cartcontrollers "github.com/angelmondragon/storefront-backend/api/controllers/cart"
	catalogcontrollers "github.com/angelmondragon/storefront-backend/api/controllers/catalog"
	ordercontrollers "github.com/angelmondragon/storefront-backend/api/controllers/orders"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/settings"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/storefront-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// redisStore is the slice of the redis client the HTTP layer depends on.
type redisStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Dependencies carries everything NewRouter wires into handlers.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Pingers  map[string]controllers.Pinger
	Redis    redisStore
	Sessions sessionManager
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics

	Auth          auth.Service
	Register      auth.RegisterService
	AdminRegister auth.AdminRegisterService
	Catalog       catalog.Service
	Cart          cart.Service
	Checkout      checkoutsvc.Service
	Orders        orders.Service
	Settings      settings.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTP),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	limits := cfg.AuthRateLimit
	loginLimit := middleware.AuthThrottle(middleware.ThrottlePolicy{
		Name: "login", Window: limits.LoginWindow, PerIP: limits.LoginIPLimit, PerIdentity: limits.LoginEmailLimit,
	}, deps.Redis, logg)
	registerLimit := middleware.AuthThrottle(middleware.ThrottlePolicy{
		Name: "register", Window: limits.RegisterWindow, PerIP: limits.RegisterIPLimit, PerIdentity: limits.RegisterEmailLimit,
	}, deps.Redis, logg)
	replayOnce := middleware.Idempotent(deps.Redis, middleware.IdempotencyPolicy{TTL: middleware.StandardReplayTTL, Required: true}, logg)
	replayCheckout := middleware.Idempotent(deps.Redis, middleware.IdempotencyPolicy{TTL: middleware.CheckoutReplayTTL}, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Pingers, logg))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartSession(cfg.Cart.SessionTTL, cfg.App.IsProd(), logg))

		r.Get("/storefront", controllers.Storefront(deps.Settings, deps.Catalog, deps.Cart, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogcontrollers.ListProducts(deps.Catalog, logg))
			r.Get("/featured", catalogcontrollers.Featured(deps.Catalog, logg))
			r.Get("/{slug}", catalogcontrollers.ProductDetail(deps.Catalog, logg))
		})
		r.Get("/categories", catalogcontrollers.Categories(deps.Catalog, logg))
		r.Get("/brands", catalogcontrollers.Brands(deps.Catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(deps.Cart, logg))
			r.Post("/items", cartcontrollers.CartAddItem(deps.Cart, logg))
			r.Put("/items/{productId}", cartcontrollers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(deps.Cart, logg))
		})

		r.With(replayCheckout).Post("/checkout", controllers.Checkout(deps.Checkout, logg))
		r.Get("/orders/{orderNumber}", ordercontrollers.Detail(deps.Orders, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimit).Post("/login", authcontrollers.AuthLogin(deps.Auth, logg))
			r.With(registerLimit, replayOnce).Post("/register", authcontrollers.AuthRegister(deps.Register, deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))

			r.Route("/admin", func(r chi.Router) {
				if !cfg.App.IsProd() {
					r.With(registerLimit).Post("/register", authcontrollers.AdminAuthRegister(deps.AdminRegister, deps.Auth, cfg, logg))
				}
				r.With(loginLimit).Post("/login", authcontrollers.AdminAuthLogin(deps.Auth, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))

			r.With(replayOnce).Post("/products", admincontrollers.CreateProduct(deps.Catalog, logg))
			r.Patch("/products/{productId}", admincontrollers.UpdateProduct(deps.Catalog, logg))
			r.Delete("/products/{productId}", admincontrollers.DeleteProduct(deps.Catalog, logg))
			r.With(replayOnce).Post("/categories", admincontrollers.CreateCategory(deps.Catalog, logg))
			r.Delete("/categories/{categoryId}", admincontrollers.DeleteCategory(deps.Catalog, logg))
			r.With(replayOnce).Post("/brands", admincontrollers.CreateBrand(deps.Catalog, logg))
			r.Delete("/brands/{brandId}", admincontrollers.DeleteBrand(deps.Catalog, logg))
			r.Get("/settings", admincontrollers.ListSettings(deps.Settings, logg))
			r.Put("/settings/{key}", admincontrollers.PutSetting(deps.Settings, logg))
		})
	})

	return r
}
