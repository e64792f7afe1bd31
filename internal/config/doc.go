// Package config provides centralized configuration management for the
// invoicelens dashboard. It loads configuration from multiple sources,
// validates it, and provides a type-safe API for the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml (optional)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern INVOICELENS_* for namespacing:
//
//	INVOICELENS_SERVER_PORT=8080
//	INVOICELENS_DATA_CSV_PATH=data/invoices.csv
//	INVOICELENS_LOGGING_LEVEL=info
//
// The dashboard section only carries presentation options (title, icon,
// palette) for the UI layer; the computation core never reads them.
package config
