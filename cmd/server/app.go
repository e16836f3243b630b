package main

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/invoicing-app/internal/config"
	"github.com/diewo77/invoicing-app/internal/email"
	"github.com/diewo77/invoicing-app/internal/pdf"
	"github.com/diewo77/invoicing-app/internal/ratelimit"
	"github.com/diewo77/invoicing-app/internal/server"
	"github.com/diewo77/invoicing-app/internal/services"
)

// buildApp wires the service graph onto the router. Kept separate from main
// so end-to-end tests can stand up the same handler.
func buildApp(dbConn *gorm.DB, logger *zap.Logger, cfg config.Config) (http.Handler, error) {
	numbering, err := services.NewNumbering(dbConn)
	if err != nil {
		return nil, err
	}
	catalog := services.NewCatalogService(dbConn)
	invoices := services.NewInvoiceService(dbConn, catalog, numbering, pdf.NewGenerator(), email.NewLogSender(logger))

	var limiter *ratelimit.Limiter
	if cfg.RateLimit {
		limiter = ratelimit.New(ratelimit.Defaults())
	}
	return server.New(server.Deps{
		DB:      dbConn,
		Catalog: catalog,
		Invoice: invoices,
		Log:     logger,
		Limiter: limiter,
	}), nil
}
