package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Yashjain18111/VMS/api/controllers"
	"github.com/Yashjain18111/VMS/api/middleware"
	"github.com/Yashjain18111/VMS/internal/auth"
	"github.com/Yashjain18111/VMS/internal/purchaseorders"
	"github.com/Yashjain18111/VMS/internal/vendors"
	"github.com/Yashjain18111/VMS/pkg/auth/session"
	"github.com/Yashjain18111/VMS/pkg/config"
	"github.com/Yashjain18111/VMS/pkg/logger"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            controllers.Pinger
	Redis         controllers.Pinger
	Sessions      session.AccessSessionChecker
	Auth          auth.Service
	Vendors       vendors.Service
	PurchaseOrder purchaseorders.Service
	Metrics       prometheus.Gatherer
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	gatherer := deps.Metrics
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Get("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/generate-token", controllers.GenerateToken(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Get("/me/ping", controllers.PrivatePing())

			r.Route("/vendors", func(r chi.Router) {
				r.Get("/", controllers.VendorList(deps.Vendors, logg))
				r.Post("/", controllers.VendorCreate(deps.Vendors, logg))
				r.Route("/{vendorId}", func(r chi.Router) {
					r.Get("/", controllers.VendorGet(deps.Vendors, logg))
					r.Put("/", controllers.VendorUpdate(deps.Vendors, logg))
					r.Delete("/", controllers.VendorDelete(deps.Vendors, logg))
					r.Get("/performance", controllers.VendorPerformance(deps.Vendors, logg))
					r.Get("/performance/history", controllers.VendorPerformanceHistory(deps.Vendors, logg))
				})
			})

			r.Route("/purchase_orders", func(r chi.Router) {
				r.Get("/", controllers.PurchaseOrderList(deps.PurchaseOrder, logg))
				r.Post("/", controllers.PurchaseOrderCreate(deps.PurchaseOrder, logg))
				r.Route("/{poId}", func(r chi.Router) {
					r.Get("/", controllers.PurchaseOrderGet(deps.PurchaseOrder, logg))
					r.Put("/", controllers.PurchaseOrderUpdate(deps.PurchaseOrder, logg))
					r.Delete("/", controllers.PurchaseOrderDelete(deps.PurchaseOrder, logg))
					r.Post("/acknowledge", controllers.PurchaseOrderAcknowledge(deps.PurchaseOrder, logg))
				})
			})
		})
	})

	return r
}
