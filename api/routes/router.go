package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tallypos/terminal/api/controllers"
	"github.com/tallypos/terminal/api/middleware"
	"github.com/tallypos/terminal/internal/cart"
	"github.com/tallypos/terminal/internal/catalog"
	checkoutsvc "github.com/tallypos/terminal/internal/checkout"
	"github.com/tallypos/terminal/internal/customers"
	"github.com/tallypos/terminal/internal/history"
	"github.com/tallypos/terminal/internal/receipt"
	"github.com/tallypos/terminal/internal/session"
	"github.com/tallypos/terminal/pkg/backend"
	"github.com/tallypos/terminal/pkg/enums"
	"github.com/tallypos/terminal/pkg/localstore"
	"github.com/tallypos/terminal/pkg/logger"
	"github.com/tallypos/terminal/pkg/metrics"
)

// Deps carries everything the local HTTP surface needs.
type Deps struct {
	Version         string
	Logger          *logger.Logger
	Guard           session.Service
	Backend         *backend.Client
	Cart            cart.Service
	Checkout        checkoutsvc.Service
	Catalog         catalog.Service
	Searcher        *catalog.Searcher
	Customers       customers.Service
	History         history.Service
	Formatter       *receipt.Formatter
	Store           *localstore.Store
	TerminalMetrics *metrics.TerminalMetrics
	Registry        *prometheus.Registry
}

// NewRouter assembles the terminal's local API.
func NewRouter(deps Deps) http.Handler {
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.Health(deps.Version))
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session/login", controllers.SessionLogin(deps.Guard, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(deps.Guard, logg))

			r.Get("/session", controllers.SessionCurrent(deps.Guard, logg))
			r.Post("/session/logout", controllers.SessionLogout(deps.Guard, logg))

			r.Post("/catalog/scan", controllers.CatalogScan(deps.Catalog, logg))
			r.Get("/catalog/products", controllers.CatalogSearch(deps.Catalog, logg))
			r.Get("/catalog/products/active", controllers.CatalogActive(deps.Catalog, logg))
			r.Get("/catalog/live", controllers.CatalogLiveSearch(deps.Searcher, logg))

			r.Get("/customers", controllers.CustomersSearch(deps.Customers, logg))

			// Ringing up sales is the cashier's area; admins land on the
			// dashboard and never drive the till.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(deps.Guard, logg, enums.RoleCashier))

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", controllers.CartGet(deps.Cart, logg))
					r.Delete("/", controllers.CartClear(deps.Cart, logg))
					r.Post("/lines", controllers.CartAddLine(deps.Cart, deps.Backend, logg))
					r.Put("/lines/{productID}", controllers.CartSetQuantity(deps.Cart, logg))
					r.Put("/lines/{productID}/discount", controllers.CartSetDiscount(deps.Cart, logg))
					r.Delete("/lines/{productID}", controllers.CartRemoveLine(deps.Cart, logg))
					r.Put("/customer", controllers.CartSetCustomer(deps.Cart, logg))
				})

				r.Route("/checkout", func(r chi.Router) {
					r.Get("/", controllers.CheckoutState(deps.Checkout, logg))
					r.Post("/", controllers.CheckoutBegin(deps.Checkout, logg))
					r.Post("/customer", controllers.CheckoutSelectCustomer(deps.Checkout, logg))
					r.Delete("/customer", controllers.CheckoutLeaveCustomer(deps.Checkout, logg))
					r.Put("/method", controllers.CheckoutSetMethod(deps.Checkout, logg))
					r.Put("/tendered", controllers.CheckoutSetTendered(deps.Checkout, logg))
					r.Put("/notes", controllers.CheckoutSetNotes(deps.Checkout, logg))
					r.Post("/submit", controllers.CheckoutSubmit(deps.Checkout, logg))
					r.Post("/cancel", controllers.CheckoutCancel(deps.Checkout, logg))
				})
			})

			r.Get("/receipts", controllers.ReceiptsRecent(deps.Store, logg))
			r.Get("/receipts/last", controllers.ReceiptLast(deps.Checkout, deps.Formatter, deps.Store, deps.TerminalMetrics, logg))
			r.Get("/receipts/{code}", controllers.ReceiptByCode(deps.History, deps.Formatter, deps.Store, deps.TerminalMetrics, logg))

			r.Get("/transactions", controllers.HistoryList(deps.History, logg))
			r.Get("/transactions/{code}", controllers.HistoryByCode(deps.History, logg))
		})
	})

	return r
}
