package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds everything the dashboard needs from the environment.
type Config struct {
	SpreadsheetID string
	SheetName     string
	AdminPassword string
	ListenAddr    string
	CatalogFile   string

	// Vendor fulfillment API. Dispatch is disabled when the URL is empty.
	VendorAPIURL string
	VendorAPIID  string
	VendorAPIKey string
}

var logLevels = map[string]zerolog.Level{
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"fatal":    zerolog.FatalLevel,
	"panic":    zerolog.PanicLevel,
	"disabled": zerolog.Disabled,
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	production := os.Getenv("ENV") == "production"
	if production {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	if levelStr == "" {
		// Default based on environment
		if production {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	} else if level, ok := logLevels[levelStr]; ok {
		zerolog.SetGlobalLevel(level)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// LoadConfig reads the dashboard configuration from the environment.
// Missing required variables are fatal.
func LoadConfig() Config {
	cfg := Config{
		SpreadsheetID: GetRequiredEnv("SPREADSHEET_ID"),
		SheetName:     GetEnvWithDefault("SHEET_NAME", "Sheet1"),
		AdminPassword: GetRequiredEnv("ADMIN_PASSWORD"),
		ListenAddr:    GetEnvWithDefault("LISTEN_ADDR", ":8347"),
		CatalogFile:   GetEnvWithDefault("CATALOG_FILE", "catalog.yaml"),
		VendorAPIURL:  os.Getenv("VENDOR_API_URL"),
		VendorAPIID:   os.Getenv("VENDOR_API_ID"),
		VendorAPIKey:  os.Getenv("VENDOR_API_KEY"),
	}

	if cfg.VendorAPIURL != "" && (cfg.VendorAPIID == "" || cfg.VendorAPIKey == "") {
		log.Fatal().Msg("VENDOR_API_URL is set but VENDOR_API_ID or VENDOR_API_KEY is missing")
	}

	log.Debug().
		Str("spreadsheet_id", cfg.SpreadsheetID).
		Str("sheet_name", cfg.SheetName).
		Str("listen_addr", cfg.ListenAddr).
		Bool("vendor_enabled", cfg.VendorAPIURL != "").
		Msg("Loaded configuration")

	return cfg
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
