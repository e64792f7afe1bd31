package domain

import (
	"fmt"
	"time"
)

// Frequency is the time-bucket size used when resampling the transaction
// timeline.
type Frequency string

const (
	// FrequencyDaily buckets transactions per calendar day.
	FrequencyDaily Frequency = "D"
	// FrequencyWeekly buckets transactions per week, anchored on Sunday.
	FrequencyWeekly Frequency = "W"
	// FrequencyMonthly buckets transactions per calendar month, labelled
	// with the month-end date.
	FrequencyMonthly Frequency = "M"
)

// Valid reports whether the frequency is one of the three supported values.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// KPISnapshot is the fixed six-metric summary of a row set. It is a value
// type: a zero snapshot is the correct result for an empty row set.
type KPISnapshot struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalQuantity       int     `json:"total_quantity"`
	NumTransactions     int     `json:"num_transactions"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	UniqueCustomers     int     `json:"unique_customers"`
	UniqueProducts      int     `json:"unique_products"`
}

// YearlyRevenue is one row of the per-year revenue series.
type YearlyRevenue struct {
	InvoiceYear  int     `json:"invoice_year"`
	TotalRevenue float64 `json:"total_revenue"`
}

// YearlyQuantity is one row of the per-year quantity series.
type YearlyQuantity struct {
	InvoiceYear   int `json:"invoice_year"`
	TotalQuantity int `json:"total_quantity"`
}

// ProductRevenue is one row of the top-products ranking.
type ProductRevenue struct {
	ProductID    int     `json:"product_id"`
	TotalRevenue float64 `json:"total_revenue"`
}

// ProductYearPerformance is one row of a per-product yearly performance
// series.
type ProductYearPerformance struct {
	InvoiceYear int     `json:"invoice_year"`
	Revenue     float64 `json:"revenue"`
	Quantity    int     `json:"quantity"`
}

// MultiProductPoint is one (year, product) revenue cell for multi-trace
// product comparison charts.
type MultiProductPoint struct {
	InvoiceYear int     `json:"invoice_year"`
	ProductID   int     `json:"product_id"`
	Revenue     float64 `json:"revenue"`
}

// Heatmap is a product x year revenue matrix with missing combinations
// filled with zero. Rows follow Products order, columns follow Years order.
type Heatmap struct {
	Products []int       `json:"products"`
	Years    []int       `json:"years"`
	Revenue  [][]float64 `json:"revenue"`
}

// VolumePoint is one bucket of the resampled transaction timeline. Gap
// buckets carry an explicit zero volume rather than being omitted.
type VolumePoint struct {
	Date   time.Time `json:"date"`
	Volume int       `json:"volume"`
}

// KPIComparison carries the per-metric year-over-year percentage change.
// A nil delta is the absent sentinel: the previous value was zero, so no
// percentage change is defined.
type KPIComparison struct {
	TotalRevenueChange        *float64 `json:"total_revenue_change"`
	TotalQuantityChange       *float64 `json:"total_quantity_change"`
	NumTransactionsChange     *float64 `json:"num_transactions_change"`
	AvgTransactionValueChange *float64 `json:"avg_transaction_value_change"`
	UniqueCustomersChange     *float64 `json:"unique_customers_change"`
	UniqueProductsChange      *float64 `json:"unique_products_change"`
}

// YoYComparison bundles one year's KPI snapshot with the prior year's
// snapshot and the per-metric deltas. Previous and Comparison are nil when
// the prior year has no transactions.
type YoYComparison struct {
	Year       int            `json:"year"`
	Current    KPISnapshot    `json:"current"`
	Previous   *KPISnapshot   `json:"previous"`
	Comparison *KPIComparison `json:"comparison"`
}

// String implements fmt.Stringer for log-friendly KPI output.
func (k KPISnapshot) String() string {
	return fmt.Sprintf("revenue=%.2f qty=%d tx=%d avg=%.2f customers=%d products=%d",
		k.TotalRevenue, k.TotalQuantity, k.NumTransactions,
		k.AvgTransactionValue, k.UniqueCustomers, k.UniqueProducts)
}
