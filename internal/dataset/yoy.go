package dataset

import (
	"invoicelens/pkg/contracts/domain"
)

// KPIsForYear computes the six-metric snapshot restricted to one calendar
// year. A year with no rows yields a zero-valued snapshot, not an error.
func KPIsForYear(d *Dataset, year int) domain.KPISnapshot {
	var rows []domain.Invoice
	for _, inv := range d.rows {
		if inv.InvoiceYear == year {
			rows = append(rows, inv)
		}
	}
	return d.withRows(rows).KPIs()
}

// PercentageChange returns (current-previous)/previous * 100, or nil when
// the previous value is zero. The nil is the absent sentinel: a percentage
// change over a zero base is undefined, never infinity and never an error.
func PercentageChange(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	change := (current - previous) / previous * 100
	return &change
}

// KPIsWithYoYComparison bundles the snapshot for a year with the prior
// year's snapshot and the per-metric percentage change. When the prior year
// has zero transactions, Previous and Comparison are explicitly nil rather
// than zero-propagated.
func KPIsWithYoYComparison(d *Dataset, year int) domain.YoYComparison {
	current := KPIsForYear(d, year)
	previous := KPIsForYear(d, year-1)

	result := domain.YoYComparison{Year: year, Current: current}
	if previous.NumTransactions == 0 {
		return result
	}

	result.Previous = &previous
	result.Comparison = &domain.KPIComparison{
		TotalRevenueChange:        PercentageChange(current.TotalRevenue, previous.TotalRevenue),
		TotalQuantityChange:       PercentageChange(float64(current.TotalQuantity), float64(previous.TotalQuantity)),
		NumTransactionsChange:     PercentageChange(float64(current.NumTransactions), float64(previous.NumTransactions)),
		AvgTransactionValueChange: PercentageChange(current.AvgTransactionValue, previous.AvgTransactionValue),
		UniqueCustomersChange:     PercentageChange(float64(current.UniqueCustomers), float64(previous.UniqueCustomers)),
		UniqueProductsChange:      PercentageChange(float64(current.UniqueProducts), float64(previous.UniqueProducts)),
	}
	return result
}
