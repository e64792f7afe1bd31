// Package contracts holds the identifiers and domain types shared between
// the service layer, the HTTP surface and the command-line tools.
package contracts

const (
	// Version is the application version reported by the API.
	Version = "0.1.0"

	// DataFormatVersion identifies the invoice CSV layout the loader
	// accepts. Bump it when required columns or date formats change.
	DataFormatVersion = "v1"
)

// Set at build time via -ldflags "-X invoicelens/pkg/contracts.GitCommit=...".
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
