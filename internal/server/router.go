package server

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/invoicing-app/internal/handlers"
	"github.com/diewo77/invoicing-app/internal/httpx"
	"github.com/diewo77/invoicing-app/internal/ratelimit"
	"github.com/diewo77/invoicing-app/internal/services"
)

// Deps bundles everything the router needs. Limiter may be nil, which
// disables rate limiting (tests, local development).
type Deps struct {
	DB      *gorm.DB
	Catalog *services.CatalogService
	Invoice *services.InvoiceService
	Log     *zap.Logger
	Limiter *ratelimit.Limiter
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := d.DB.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Catalog endpoints
	ch := handlers.NewCatalogHandler(d.Catalog)
	mux.HandleFunc("GET /clients", ch.ListClients)
	mux.HandleFunc("POST /clients", ch.CreateClient)
	mux.HandleFunc("GET /products", ch.ListProducts)
	mux.HandleFunc("POST /products", ch.CreateProduct)

	// Invoice endpoints; the write-heavy and expensive routes sit behind the
	// rate limiter, applied before the handler runs.
	ih := handlers.NewInvoiceHandler(d.Invoice)
	mux.Handle("POST /invoices", limited(d.Limiter, ratelimit.RouteInvoiceCreate, ih.Create))
	mux.Handle("GET /invoices", limited(d.Limiter, ratelimit.RouteInvoiceList, ih.List))
	mux.HandleFunc("GET /invoices/{id}", ih.Get)
	mux.HandleFunc("DELETE /invoices/{id}", ih.Delete)
	mux.HandleFunc("PATCH /invoices/{id}/status", ih.UpdateStatus)
	mux.Handle("GET /invoices/{id}/pdf", limited(d.Limiter, ratelimit.RouteInvoicePDF, ih.PDF))
	mux.Handle("POST /invoices/{id}/send", limited(d.Limiter, ratelimit.RouteInvoiceSend, ih.Send))

	return withRecover(d.Log, withLogging(d.Log, mux))
}
