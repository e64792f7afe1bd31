package dataset

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"invoicelens/pkg/contracts/domain"
)

// Criteria bundles the filter parameters the presentation layer selects.
// Nil slices mean "no filtering"; zero times mean an open date bound.
type Criteria struct {
	Years    []int
	Products []int
	Start    time.Time
	End      time.Time
}

// FilterByYears returns a new Dataset keeping rows whose invoice year is in
// the given set. A nil set means no filtering; an empty set yields zero
// rows with the same columns. Requested years absent from the data are a
// warning, not an error.
func (d *Dataset) FilterByYears(years []int) (*Dataset, error) {
	if err := d.requireColumn("invoice_year"); err != nil {
		return nil, err
	}
	if years == nil {
		return d.withRows(d.rows), nil
	}
	for _, year := range years {
		if year < MinYear || year > MaxYear {
			return nil, fmt.Errorf("%w: year %d outside supported range [%d, %d]",
				ErrInvalidArgument, year, MinYear, MaxYear)
		}
	}
	if len(years) == 0 {
		return d.withRows(nil), nil
	}

	requested := make(map[int]bool, len(years))
	for _, year := range years {
		requested[year] = true
	}

	var rows []domain.Invoice
	matched := make(map[int]bool)
	for _, inv := range d.rows {
		if requested[inv.InvoiceYear] {
			rows = append(rows, inv)
			matched[inv.InvoiceYear] = true
		}
	}

	if missing := missingKeys(requested, matched); len(missing) > 0 {
		d.log().Warn("requested years not present in dataset",
			slog.Any("missing_years", missing),
			slog.Int("matched_years", len(matched)),
		)
	}
	return d.withRows(rows), nil
}

// FilterByProducts returns a new Dataset keeping rows whose product id is
// in the given set, with the same nil/empty/unmatched semantics as
// FilterByYears.
func (d *Dataset) FilterByProducts(ids []int) (*Dataset, error) {
	if err := d.requireColumn("product_id"); err != nil {
		return nil, err
	}
	if ids == nil {
		return d.withRows(d.rows), nil
	}
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: product id %d must be positive", ErrInvalidArgument, id)
		}
	}
	if len(ids) == 0 {
		return d.withRows(nil), nil
	}

	requested := make(map[int]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}

	var rows []domain.Invoice
	matched := make(map[int]bool)
	for _, inv := range d.rows {
		if requested[inv.ProductID] {
			rows = append(rows, inv)
			matched[inv.ProductID] = true
		}
	}

	if missing := missingKeys(requested, matched); len(missing) > 0 {
		d.log().Warn("requested products not present in dataset",
			slog.Any("missing_products", missing),
			slog.Int("matched_products", len(matched)),
		)
	}
	return d.withRows(rows), nil
}

// FilterByDateRange returns a new Dataset keeping rows whose invoice date
// falls in [start, end] inclusive. A zero time leaves that bound open.
func (d *Dataset) FilterByDateRange(start, end time.Time) (*Dataset, error) {
	if err := d.requireColumn("invoice_date"); err != nil {
		return nil, err
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s",
			ErrInvalidArgument, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if start.IsZero() && end.IsZero() {
		return d.withRows(d.rows), nil
	}

	var rows []domain.Invoice
	for _, inv := range d.rows {
		if !start.IsZero() && inv.InvoiceDate.Before(start) {
			continue
		}
		if !end.IsZero() && inv.InvoiceDate.After(end) {
			continue
		}
		rows = append(rows, inv)
	}
	return d.withRows(rows), nil
}

// ApplyFilters applies year, product and date-range filters in sequence.
// The filters are pure intersection predicates, so the order does not
// affect the resulting row set.
func (d *Dataset) ApplyFilters(c Criteria) (*Dataset, error) {
	result, err := d.FilterByYears(c.Years)
	if err != nil {
		return nil, err
	}
	result, err = result.FilterByProducts(c.Products)
	if err != nil {
		return nil, err
	}
	return result.FilterByDateRange(c.Start, c.End)
}

// missingKeys returns the sorted requested keys that matched no row.
func missingKeys(requested, matched map[int]bool) []int {
	var missing []int
	for key := range requested {
		if !matched[key] {
			missing = append(missing, key)
		}
	}
	sort.Ints(missing)
	return missing
}
