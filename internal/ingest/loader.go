// Package ingest loads invoice line-item CSV files and enforces the
// required-column schema, per-column type and quality constraints, and the
// fixed DD/MM/YYYY date format. A load either produces a fully validated
// row set or fails with a classified error carrying every violation found
// in the failing phase; no partially clean table is ever returned.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"invoicelens/pkg/contracts/domain"
)

// maxViolationExamples caps how many offending raw values a single
// violation reports back to the caller.
const maxViolationExamples = 3

// Loader reads and validates a single invoice CSV file. It is used exactly
// once per data source and holds no state between loads.
type Loader struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewLoader creates a loader for the given CSV path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		path:   path,
		logger: logger.With(slog.String("component", "ingest")),
		now:    time.Now,
	}
}

// Result carries the validated rows and the column set of the source file,
// including any optional pass-through columns that were present.
type Result struct {
	Invoices []domain.Invoice
	Columns  []string
}

// rawRow holds one data row keyed by column name, before type conversion.
type rawRow map[string]string

// Load runs the mandatory validation steps in order, short-circuiting on
// the first failing phase: existence, parse, schema, types, quality, date
// conversion. After all checks pass it logs descriptive statistics and
// returns the validated rows.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	info, err := os.Stat(l.path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, l.path)
	}

	header, rows, err := l.readCSV()
	if err != nil {
		return nil, err
	}

	columns, err := l.checkSchema(header)
	if err != nil {
		return nil, err
	}

	raw := make([]rawRow, len(rows))
	for i, record := range rows {
		row := make(rawRow, len(header))
		for j, col := range header {
			if j < len(record) {
				row[col] = strings.TrimSpace(record[j])
			}
		}
		raw[i] = row
	}

	if err := l.checkTypes(raw); err != nil {
		return nil, err
	}
	if err := l.checkQuality(ctx, raw); err != nil {
		return nil, err
	}

	invoices, err := l.convertDates(ctx, raw)
	if err != nil {
		return nil, err
	}

	l.logStatistics(ctx, invoices, columns)

	return &Result{Invoices: invoices, Columns: columns}, nil
}

// readCSV parses the file into a header and data rows. A UTF-8 BOM is
// stripped so Excel-exported files parse cleanly.
func (l *Loader) readCSV() ([]string, [][]string, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, l.path)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", l.path, err)
	}
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrEmpty, l.path)
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%w: %s has a header but no data rows", ErrEmpty, l.path)
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	return header, records[1:], nil
}

// checkSchema verifies every required column is present, reporting all
// missing columns together. It returns the ordered column set of the file:
// required columns plus any optional pass-through columns found.
func (l *Loader) checkSchema(header []string) ([]string, error) {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}

	var violations []Violation
	for _, col := range domain.RequiredColumns {
		if !present[col] {
			violations = append(violations, Violation{
				Column:  col,
				Message: "required column is missing",
			})
		}
	}
	if len(violations) > 0 {
		return nil, newValidationError("schema", violations)
	}

	columns := append([]string{}, domain.RequiredColumns...)
	for _, col := range domain.OptionalColumns {
		if present[col] {
			columns = append(columns, col)
		}
	}
	return columns, nil
}

// checkTypes verifies that numeric columns parse and emails contain "@".
// All violations across columns are reported together.
func (l *Loader) checkTypes(rows []rawRow) error {
	counters := map[string]*Violation{
		"product_id": {Column: "product_id", Message: "non-integer values"},
		"qty":        {Column: "qty", Message: "non-integer values"},
		"amount":     {Column: "amount", Message: "non-numeric values"},
		"email":      {Column: "email", Message: `values without "@"`},
	}

	for _, row := range rows {
		for _, col := range []string{"product_id", "qty"} {
			if value := row[col]; value != "" {
				if _, err := strconv.Atoi(value); err != nil {
					record(counters[col], value)
				}
			}
		}
		if value := row["amount"]; value != "" {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				record(counters["amount"], value)
			}
		}
		if value := row["email"]; value != "" && !strings.Contains(value, "@") {
			record(counters["email"], value)
		}
	}

	violations := collect(counters, "product_id", "qty", "amount", "email")
	if len(violations) > 0 {
		return newValidationError("types", violations)
	}
	return nil
}

// checkQuality rejects null values in required columns and non-positive
// qty/amount values. Duplicate full rows are a warning, not a failure.
func (l *Loader) checkQuality(ctx context.Context, rows []rawRow) error {
	total := len(rows)
	nulls := make(map[string]*Violation)
	for _, col := range domain.RequiredColumns {
		nulls[col] = &Violation{Column: col, Message: "null or missing values"}
	}
	nonPositive := map[string]*Violation{
		"qty":    {Column: "qty", Message: "values must be > 0"},
		"amount": {Column: "amount", Message: "values must be > 0"},
	}

	seen := make(map[string]int, total)
	duplicates := 0

	for _, row := range rows {
		for _, col := range domain.RequiredColumns {
			if row[col] == "" {
				record(nulls[col], "")
			}
		}
		if qty, err := strconv.Atoi(row["qty"]); err == nil && row["qty"] != "" && qty <= 0 {
			record(nonPositive["qty"], row["qty"])
		}
		if amount, err := strconv.ParseFloat(row["amount"], 64); err == nil && row["amount"] != "" && amount <= 0 {
			record(nonPositive["amount"], row["amount"])
		}

		key := rowKey(row)
		seen[key]++
		if seen[key] == 2 {
			duplicates++
		}
	}

	var violations []Violation
	for _, col := range domain.RequiredColumns {
		if v := nulls[col]; v.Count > 0 {
			v.Percent = float64(v.Count) / float64(total) * 100
			v.Examples = nil
			violations = append(violations, *v)
		}
	}
	violations = append(violations, collect(nonPositive, "qty", "amount")...)

	if len(violations) > 0 {
		return newValidationError("quality", violations)
	}

	if duplicates > 0 {
		l.logger.WarnContext(ctx, "duplicate rows detected",
			slog.Int("duplicate_rows", duplicates),
			slog.Int("total_rows", total),
		)
	}
	return nil
}

// convertDates parses invoice_date under the fixed DD/MM/YYYY format and
// builds the typed invoice records. Future dates are a warning only.
func (l *Loader) convertDates(ctx context.Context, rows []rawRow) ([]domain.Invoice, error) {
	dateViolation := Violation{
		Column:  "invoice_date",
		Message: fmt.Sprintf("values do not match expected format DD/MM/YYYY (%s)", domain.InvoiceDateFormat),
	}

	invoices := make([]domain.Invoice, 0, len(rows))
	futureDates := 0
	now := l.now()

	for _, row := range rows {
		date, err := time.Parse(domain.InvoiceDateFormat, row["invoice_date"])
		if err != nil {
			record(&dateViolation, row["invoice_date"])
			continue
		}
		if date.After(now) {
			futureDates++
		}

		// Numeric parses validated in the types phase.
		productID, _ := strconv.Atoi(row["product_id"])
		qty, _ := strconv.Atoi(row["qty"])
		amount, _ := strconv.ParseFloat(row["amount"], 64)

		invoices = append(invoices, domain.Invoice{
			FirstName:   row["first_name"],
			LastName:    row["last_name"],
			Email:       row["email"],
			ProductID:   productID,
			Qty:         qty,
			Amount:      amount,
			InvoiceDate: date,
			Address:     row["address"],
			City:        row["city"],
			StockCode:   row["stock_code"],
			Job:         row["job"],
		})
	}

	if dateViolation.Count > 0 {
		return nil, newValidationError("dates", []Violation{dateViolation})
	}

	if futureDates > 0 {
		l.logger.WarnContext(ctx, "invoice dates in the future",
			slog.Int("future_dates", futureDates),
			slog.Time("load_time", now),
		)
	}
	return invoices, nil
}

// logStatistics emits descriptive statistics for the validated dataset.
// Observability only: the returned rows are never altered.
func (l *Loader) logStatistics(ctx context.Context, invoices []domain.Invoice, columns []string) {
	var (
		totalRevenue  float64
		totalQuantity int
		minDate       time.Time
		maxDate       time.Time
	)
	products := make(map[int]bool)
	customers := make(map[string]bool)
	emptyCells := 0

	for i, inv := range invoices {
		totalRevenue += float64(inv.Qty) * inv.Amount
		totalQuantity += inv.Qty
		products[inv.ProductID] = true
		customers[inv.Email] = true
		for _, field := range []string{inv.FirstName, inv.LastName, inv.Email} {
			if field == "" {
				emptyCells++
			}
		}
		if i == 0 || inv.InvoiceDate.Before(minDate) {
			minDate = inv.InvoiceDate
		}
		if i == 0 || inv.InvoiceDate.After(maxDate) {
			maxDate = inv.InvoiceDate
		}
	}

	// The quality phase rejects nulls, so this reads 100 today; computing
	// it keeps the log honest if that rule ever loosens.
	completeness := 100.0
	if cells := len(invoices) * len(domain.RequiredColumns); cells > 0 {
		completeness = float64(cells-emptyCells) / float64(cells) * 100
	}

	l.logger.InfoContext(ctx, "invoice data loaded",
		slog.String("path", l.path),
		slog.Int("rows", len(invoices)),
		slog.Int("columns", len(columns)),
		slog.Time("date_start", minDate),
		slog.Time("date_end", maxDate),
		slog.Int("unique_products", len(products)),
		slog.Int("unique_customers", len(customers)),
		slog.Float64("total_revenue", totalRevenue),
		slog.Int("total_quantity", totalQuantity),
		slog.Float64("completeness_percent", completeness),
	)
}

// record counts a violation occurrence and keeps a few example values.
func record(v *Violation, example string) {
	v.Count++
	if example != "" && len(v.Examples) < maxViolationExamples {
		v.Examples = append(v.Examples, example)
	}
}

// collect gathers non-empty violation counters in a fixed column order so
// error output is deterministic.
func collect(counters map[string]*Violation, order ...string) []Violation {
	var violations []Violation
	for _, col := range order {
		if v, ok := counters[col]; ok && v.Count > 0 {
			violations = append(violations, *v)
		}
	}
	return violations
}

// rowKey builds a stable identity over all row fields for duplicate
// detection.
func rowKey(row rawRow) string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = row[col]
	}
	return strings.Join(parts, "|")
}
