// Package app provides application initialization and lifecycle management
// for the invoice dashboard server. It wires configuration, logging, the
// dataset services, the HTTP router and graceful shutdown together.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Initialize structured logging
//	3. Ingest the invoice CSV into the dashboard service
//	4. Set up HTTP handlers and middleware
//	5. Configure and start the HTTP server
//	6. Set up graceful shutdown handlers
//
// # Usage
//
// The main entry point is typically:
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM to ensure active requests are
// completed before the process exits. Initialization errors are returned
// to the caller; the package never calls os.Exit() directly.
package app
