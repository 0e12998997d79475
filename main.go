package main

import (
	"context"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"

	"terracotta/collections"
	"terracotta/config"
	"terracotta/handlers"
	"terracotta/services"
	"terracotta/store"
	"terracotta/store/pbstore"
	"terracotta/store/pgstore"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Logger = cfg.Logger(os.Stderr)

	app := pocketbase.New()
	app.RootCmd.AddCommand(newMarginCmd(cfg.MarginThreshold))

	// Create collections, seed data and backfill legacy rows on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app); err != nil {
			return err
		}
		if cfg.SeedDemoData {
			if err := collections.Seed(app); err != nil {
				log.Warn().Err(err).Msg("seed data failed")
			}
		}
		if err := collections.MigrateQuoteTotals(app); err != nil {
			log.Warn().Err(err).Msg("quote totals migration failed")
		}
		if err := collections.MigrateCompletedWorkOrders(app); err != nil {
			log.Warn().Err(err).Msg("work order completion migration failed")
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		applyMailSettings(app, cfg)

		stores, err := openStores(app, cfg)
		if err != nil {
			return err
		}

		customers := &services.CustomerService{Customers: stores.Customers}
		quotes := &services.QuoteService{
			Customers: stores.Customers,
			Quotes:    stores.Quotes,
			Mailer:    services.NewPocketBaseMailer(app, cfg.CompanyName, cfg.Mail.FromAddress),
			Threshold: cfg.MarginThreshold,
			Company:   cfg.CompanyName,
		}
		workOrders := &services.WorkOrderService{WorkOrders: stores.WorkOrders}

		se.Router.BindFunc(handlers.RequestLogger)
		se.Router.BindFunc(handlers.CORS)

		se.Router.GET("/{$}", handlers.HandleRoot(cfg.CompanyName))

		// ── Customers ────────────────────────────────────────────
		se.Router.GET("/api/customers", handlers.HandleCustomerList(customers))
		se.Router.POST("/api/customers", handlers.HandleCustomerCreate(customers))
		se.Router.POST("/api/customers/import", handlers.HandleCustomerImport(customers))

		// ── Quotes ───────────────────────────────────────────────
		se.Router.GET("/api/quotes", handlers.HandleQuoteList(quotes))
		se.Router.POST("/api/quotes", handlers.HandleQuoteCreate(quotes))
		se.Router.POST("/api/quotes/preview", handlers.HandleQuotePreview(quotes))
		se.Router.POST("/api/quotes/send", handlers.HandleQuoteSend(quotes))
		se.Router.PUT("/api/quotes/{id}/status", handlers.HandleQuoteStatus(quotes))
		se.Router.GET("/api/quotes/{id}/export/pdf", handlers.HandleQuoteExportPDF(quotes))
		se.Router.GET("/api/quotes/export/excel", handlers.HandleQuoteExportExcel(quotes))

		// ── Work orders ──────────────────────────────────────────
		se.Router.GET("/api/workorders", handlers.HandleWorkOrderList(workOrders))
		se.Router.POST("/api/workorders", handlers.HandleWorkOrderCreate(workOrders))
		se.Router.PUT("/api/workorders/{id}/status", handlers.HandleWorkOrderStatus(workOrders))

		se.Router.GET("/api/dashboard", handlers.HandleDashboard(quotes, workOrders))

		log.Info().
			Str("store", cfg.StoreBackend).
			Float64("margin_threshold", quotes.MarginThreshold()).
			Msg("routes registered")
		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// openStores returns the store adapters selected by cfg.StoreBackend. The
// Postgres pool is closed when the app terminates.
func openStores(app *pocketbase.PocketBase, cfg config.Config) (store.Stores, error) {
	if cfg.StoreBackend != config.BackendPostgres {
		return pbstore.New(app).Stores(), nil
	}

	pg, err := pgstore.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return store.Stores{}, err
	}
	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		if err := pg.Close(); err != nil {
			log.Warn().Err(err).Msg("closing postgres pool")
		}
		return e.Next()
	})
	return pg.Stores(), nil
}

// applyMailSettings points the app mail client at the configured SMTP server.
// Without SMTP_HOST the PocketBase settings are left as they are.
func applyMailSettings(app core.App, cfg config.Config) {
	settings := app.Settings()
	if cfg.Mail.FromAddress != "" {
		settings.Meta.SenderAddress = cfg.Mail.FromAddress
		settings.Meta.SenderName = cfg.CompanyName
	}
	if cfg.Mail.SMTPHost == "" {
		return
	}
	settings.SMTP.Enabled = true
	settings.SMTP.Host = cfg.Mail.SMTPHost
	settings.SMTP.Port = cfg.Mail.SMTPPort
	settings.SMTP.Username = cfg.Mail.SMTPUser
	settings.SMTP.Password = cfg.Mail.SMTPPass
	settings.SMTP.TLS = cfg.Mail.SMTPTLS
}
