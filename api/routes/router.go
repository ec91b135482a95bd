package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/cardshop-backend/api/controllers"
	authcontrollers "github.com/angelmondragon/cardshop-backend/api/controllers/auth"
	cartcontrollers "github.com/angelmondragon/cardshop-backend/api/controllers/cart"
	ordercontrollers "github.com/angelmondragon/cardshop-backend/api/controllers/orders"
	"github.com/angelmondragon/cardshop-backend/api/middleware"
	"github.com/angelmondragon/cardshop-backend/internal/auth"
	"github.com/angelmondragon/cardshop-backend/internal/cart"
	"github.com/angelmondragon/cardshop-backend/internal/catalog"
	"github.com/angelmondragon/cardshop-backend/internal/orders"
	"github.com/angelmondragon/cardshop-backend/internal/users"
	"github.com/angelmondragon/cardshop-backend/pkg/config"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
	"github.com/angelmondragon/cardshop-backend/pkg/logger"
	"github.com/angelmondragon/cardshop-backend/pkg/metrics"
	"github.com/angelmondragon/cardshop-backend/pkg/redis"
)

// RateLimiter is the fixed-window counter used by the dev-login throttle.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Dependencies carries everything the router mounts. Nil stores disable the
// middleware that needs them.
type Dependencies struct {
	DB          controllers.Pinger
	Redis       controllers.Pinger
	Idempotency redis.IdempotencyStore
	RateLimiter RateLimiter
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth    auth.Service
	Catalog catalog.Service
	Orders  orders.Service
	Cart    cart.Service
	Users   users.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	devLoginPolicy := middleware.NewAuthRateLimitPolicy(
		"dev_login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	readiness := map[string]controllers.Pinger{}
	if deps.DB != nil {
		readiness["db"] = deps.DB
	}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cards", controllers.CardList(deps.Catalog, logg))
		r.Get("/cards/{cardId}", controllers.CardDetail(deps.Catalog, logg))
		r.Get("/cards/{cardId}/inventory", controllers.CardInventory(deps.Catalog, logg))
		r.Get("/sets", controllers.SetList(deps.Catalog, logg))

		if !cfg.App.IsProd() && cfg.FeatureFlags.DevLogin {
			r.With(middleware.AuthRateLimit(devLoginPolicy, deps.RateLimiter, logg)).
				Post("/auth/dev-login", authcontrollers.DevLogin(deps.Auth, logg))
		}

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, logg),
				middleware.Idempotency(deps.Idempotency, logg),
			)

			r.Get("/me", controllers.Me(deps.Users, deps.Orders, logg))

			r.Post("/orders", ordercontrollers.Place(deps.Orders, logg))
			r.Get("/orders", ordercontrollers.List(deps.Orders, logg))
			r.Get("/orders/{orderId}", ordercontrollers.Detail(deps.Orders, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(deps.Cart, logg))
				r.Delete("/", cartcontrollers.CartClear(deps.Cart, logg))
				r.Post("/items", cartcontrollers.CartAddItem(deps.Cart, logg))
				r.Put("/items/{inventoryId}", cartcontrollers.CartSetQuantity(deps.Cart, logg))
				r.Delete("/items/{inventoryId}", cartcontrollers.CartRemoveItem(deps.Cart, logg))
				r.Post("/checkout", cartcontrollers.CartCheckout(deps.Cart, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireRole(enums.UserRoleAdmin, logg),
			middleware.Idempotency(deps.Idempotency, logg),
		)

		r.Post("/cards", controllers.AdminCreateCard(deps.Catalog, logg))
		r.Patch("/cards/{cardId}", controllers.AdminUpdateCard(deps.Catalog, logg))
		r.Delete("/cards/{cardId}", controllers.AdminDeleteCard(deps.Catalog, logg))
		r.Put("/cards/{cardId}/inventory", controllers.AdminUpsertInventory(deps.Catalog, logg))
		r.Delete("/inventory/{inventoryId}", controllers.AdminDeleteInventory(deps.Catalog, logg))
		r.Get("/orders", ordercontrollers.AdminList(deps.Orders, logg))
		r.Get("/users", controllers.AdminUserList(deps.Users, logg))
	})

	return r
}
