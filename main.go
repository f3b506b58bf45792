package main

import (
	"context"
	"net/http"

	"ridho_store_admin/internal/app"
	"ridho_store_admin/internal/catalog"
	"ridho_store_admin/internal/dashboard"
	"ridho_store_admin/internal/fulfillment"
	"ridho_store_admin/internal/notifications"
	"ridho_store_admin/internal/server"
	"ridho_store_admin/internal/sheets"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()
	log.Debug().Msg("Starting admin dashboard")

	ctx := context.Background()
	cfg := app.LoadConfig()

	sheetsClient, err := sheets.NewClient(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("Failed to load service catalog")
	}

	var dispatcher dashboard.Dispatcher
	if cfg.VendorAPIURL != "" {
		dispatcher = fulfillment.NewClient(cfg.VendorAPIURL, cfg.VendorAPIID, cfg.VendorAPIKey)
		log.Info().Str("vendor_url", cfg.VendorAPIURL).Msg("Vendor dispatch enabled")
	} else {
		log.Info().Msg("Vendor dispatch disabled, all orders are manual")
	}

	notifier := initializeNotifications()

	svc := dashboard.New(sheetsClient, cat, dispatcher, notifier, cfg.SpreadsheetID, cfg.SheetName)
	srv := server.New(svc, cfg.AdminPassword)

	log.Info().Str("addr", cfg.ListenAddr).Msg("Dashboard listening")
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}
}

func initializeNotifications() *notifications.Client {
	enabled := app.GetEnvWithDefault("NTFY_ENABLED", "false") == "true"
	baseURL := app.GetEnvWithDefault("NTFY_URL", "https://ntfy.sh")
	topic := app.GetEnvWithDefault("NTFY_TOPIC", "ridho-store-orders")

	if enabled {
		log.Info().Str("topic", topic).Msg("Notifications enabled")
	} else {
		log.Debug().Msg("Notifications disabled")
	}

	return notifications.NewClient(baseURL, topic, enabled)
}
