package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/ayebare/dukapos/api/controllers"
	"github.com/ayebare/dukapos/api/middleware"
	cartsvc "github.com/ayebare/dukapos/internal/cart"
	"github.com/ayebare/dukapos/internal/catalog"
	"github.com/ayebare/dukapos/pkg/config"
	"github.com/ayebare/dukapos/pkg/logger"
	"github.com/ayebare/dukapos/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	productCache *catalog.Cache,
	remote *catalog.Client,
	cartStore *cartsvc.Store,
	registry *prometheus.Registry,
	taxRate decimal.Decimal,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(logg, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productCache, logg))
			r.Post("/prefetch", controllers.ProductPrefetch(productCache, logg))
			r.Get("/{productId}", controllers.ProductFetch(productCache, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartStore, taxRate, logg))
			r.Delete("/", controllers.CartClear(cartStore, taxRate, logg))
			r.Post("/items", controllers.CartAddItem(cartStore, productCache, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(cartStore, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartStore, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(cartStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(remote, logg))
			r.Get("/{orderId}", controllers.OrderFetch(remote, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(remote, logg))
			r.Get("/{customerId}", controllers.CustomerFetch(remote, logg))
		})
	})

	return r
}
