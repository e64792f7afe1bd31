// Package dataset wraps a validated invoice row set in an immutable value
// type with chainable filters and aggregation views. Every filter returns a
// new Dataset over a row subset; every view is a pure function of the
// current rows. Empty results from valid-but-unmatched filters are ordinary
// zero values, never errors.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"invoicelens/pkg/contracts/domain"
)

// Year bounds used to reject nonsense filter criteria.
const (
	MinYear = 1900
	MaxYear = 2100
)

// ErrInvalidArgument indicates a malformed filter or aggregation argument:
// an unknown frequency, an inverted date range, or criterion values outside
// any plausible domain.
var ErrInvalidArgument = errors.New("invalid argument")

// FilterError indicates a filter was asked to operate on a column the
// dataset does not carry.
type FilterError struct {
	Column    string
	Available []string
}

// Error implements the error interface
func (e *FilterError) Error() string {
	return fmt.Sprintf("column %q not found in dataset (available: %s)",
		e.Column, strings.Join(e.Available, ", "))
}

// derivedColumns are appended to the column set on construction, mirroring
// the derive-if-absent contract.
var derivedColumns = []string{
	"full_name",
	"total_amount",
	"invoice_year",
	"invoice_month",
	"invoice_day",
}

// Dataset is an immutable view over derived invoice rows. Filtering never
// mutates a Dataset; sibling instances are safe for concurrent reads.
type Dataset struct {
	rows    []domain.Invoice
	columns []string
	logger  *slog.Logger
}

// New constructs a Dataset from validated invoices. The rows are copied,
// derived fields are populated where absent, and the derived column names
// are appended to the column set. A nil column list means the full default
// schema.
func New(invoices []domain.Invoice, columns []string) *Dataset {
	if columns == nil {
		columns = append(append([]string{}, domain.RequiredColumns...), domain.OptionalColumns...)
	}

	rows := make([]domain.Invoice, len(invoices))
	for i, inv := range invoices {
		rows[i] = inv.Derived()
	}

	cols := append([]string{}, columns...)
	present := make(map[string]bool, len(cols))
	for _, col := range cols {
		present[col] = true
	}
	for _, col := range derivedColumns {
		if !present[col] {
			cols = append(cols, col)
		}
	}

	return &Dataset{rows: rows, columns: cols}
}

// WithLogger returns a Dataset that emits filter diagnostics through the
// given logger. Without it, diagnostics go to the slog default.
func (d *Dataset) WithLogger(logger *slog.Logger) *Dataset {
	nd := *d
	nd.logger = logger.With(slog.String("component", "dataset"))
	return &nd
}

// log returns the injected logger, falling back to the slog default.
func (d *Dataset) log() *slog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return slog.Default().With(slog.String("component", "dataset"))
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Rows returns a copy of the row set.
func (d *Dataset) Rows() []domain.Invoice {
	rows := make([]domain.Invoice, len(d.rows))
	copy(rows, d.rows)
	return rows
}

// Columns returns a copy of the column set, derived columns included.
func (d *Dataset) Columns() []string {
	cols := make([]string, len(d.columns))
	copy(cols, d.columns)
	return cols
}

// HasColumn reports whether the dataset carries the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, col := range d.columns {
		if col == name {
			return true
		}
	}
	return false
}

// requireColumn returns a FilterError when the named column is absent.
func (d *Dataset) requireColumn(name string) error {
	if !d.HasColumn(name) {
		return &FilterError{Column: name, Available: d.Columns()}
	}
	return nil
}

// withRows returns a new Dataset over the given row subset, preserving the
// column set. Rows are already derived, so construction is cheap.
func (d *Dataset) withRows(rows []domain.Invoice) *Dataset {
	return &Dataset{rows: rows, columns: d.columns, logger: d.logger}
}
