package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-bff/api/controllers"
	"github.com/angelmondragon/storefront-bff/api/middleware"
	checkoutsvc "github.com/angelmondragon/storefront-bff/internal/checkout"
	"github.com/angelmondragon/storefront-bff/internal/orders"
	"github.com/angelmondragon/storefront-bff/internal/products"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/metrics"
	"github.com/angelmondragon/storefront-bff/pkg/redis"
)

// Deps carries everything the HTTP surface is wired with.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	Redis      *redis.Client
	Products   products.Service
	Orders     orders.Service
	Checkout   checkoutsvc.Service
	Cart       controllers.CartManager
	Payment    controllers.PaymentFlow
	Gateway    controllers.Forwarder
	Metrics    *metrics.HTTPMetrics
	MetricsReg *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Redis))
	})

	if deps.MetricsReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsReg, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Get("/{slug}", controllers.ProductDetail(deps.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Patch("/items/{lineId}", controllers.CartUpdateLine(deps.Cart, logg))
			r.Delete("/items/{lineId}", controllers.CartRemoveLine(deps.Cart, logg))
		})

		r.Get("/checkout", controllers.CheckoutDetail(deps.Cart, deps.Checkout, logg))

		r.Route("/payment", func(r chi.Router) {
			r.Get("/", controllers.PaymentStatus(deps.Payment, logg))
			r.Post("/", controllers.PaymentBegin(deps.Payment, logg))
			r.Post("/success", controllers.PaymentSuccess(deps.Payment, logg))
			r.Post("/dismiss", controllers.PaymentDismiss(deps.Payment, logg))
		})

		r.Post("/graphql", controllers.GraphQLProxy(deps.Gateway, logg))
	})

	return r
}
