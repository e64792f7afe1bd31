package dataset

import (
	"sort"

	"invoicelens/pkg/contracts/domain"
)

// KPIs computes the six-metric snapshot of the current row set. All six
// values are zero for an empty dataset; an empty result is never an error.
func (d *Dataset) KPIs() domain.KPISnapshot {
	if len(d.rows) == 0 {
		return domain.KPISnapshot{}
	}

	var snapshot domain.KPISnapshot
	customers := make(map[string]bool)
	products := make(map[int]bool)

	for _, inv := range d.rows {
		snapshot.TotalRevenue += inv.Revenue()
		snapshot.TotalQuantity += inv.Qty
		customers[inv.Email] = true
		products[inv.ProductID] = true
	}

	snapshot.NumTransactions = len(d.rows)
	snapshot.AvgTransactionValue = snapshot.TotalRevenue / float64(snapshot.NumTransactions)
	snapshot.UniqueCustomers = len(customers)
	snapshot.UniqueProducts = len(products)
	return snapshot
}

// YearlyRevenue aggregates revenue per invoice year, ascending by year.
func (d *Dataset) YearlyRevenue() []domain.YearlyRevenue {
	totals := make(map[int]float64)
	for _, inv := range d.rows {
		totals[inv.InvoiceYear] += inv.Revenue()
	}

	result := make([]domain.YearlyRevenue, 0, len(totals))
	for _, year := range sortedIntKeys(totals) {
		result = append(result, domain.YearlyRevenue{
			InvoiceYear:  year,
			TotalRevenue: totals[year],
		})
	}
	return result
}

// YearlyQuantity aggregates quantity sold per invoice year, ascending by
// year.
func (d *Dataset) YearlyQuantity() []domain.YearlyQuantity {
	totals := make(map[int]int)
	for _, inv := range d.rows {
		totals[inv.InvoiceYear] += inv.Qty
	}

	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)

	result := make([]domain.YearlyQuantity, 0, len(years))
	for _, year := range years {
		result = append(result, domain.YearlyQuantity{
			InvoiceYear:   year,
			TotalQuantity: totals[year],
		})
	}
	return result
}

// TopProducts returns the n products with the largest summed revenue.
// Ties break deterministically by ascending product id.
func (d *Dataset) TopProducts(n int) []domain.ProductRevenue {
	totals := make(map[int]float64)
	for _, inv := range d.rows {
		totals[inv.ProductID] += inv.Revenue()
	}

	ranking := make([]domain.ProductRevenue, 0, len(totals))
	for id, revenue := range totals {
		ranking = append(ranking, domain.ProductRevenue{ProductID: id, TotalRevenue: revenue})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].TotalRevenue != ranking[j].TotalRevenue {
			return ranking[i].TotalRevenue > ranking[j].TotalRevenue
		}
		return ranking[i].ProductID < ranking[j].ProductID
	})

	// A non-positive limit selects nothing rather than failing.
	if n < 0 {
		n = 0
	}
	if n < len(ranking) {
		ranking = ranking[:n]
	}
	return ranking
}

// TopProductIDs returns just the ordered product ids of the top-n ranking.
// The presentation layer uses it to cap how many filter controls it renders.
func (d *Dataset) TopProductIDs(n int) []int {
	top := d.TopProducts(n)
	ids := make([]int, len(top))
	for i, p := range top {
		ids[i] = p.ProductID
	}
	return ids
}

// ProductYearHeatmap builds the product x year revenue matrix with missing
// combinations filled with zero. Products and years are sorted ascending.
func (d *Dataset) ProductYearHeatmap() domain.Heatmap {
	revenue := make(map[int]map[int]float64)
	yearSet := make(map[int]bool)

	for _, inv := range d.rows {
		if revenue[inv.ProductID] == nil {
			revenue[inv.ProductID] = make(map[int]float64)
		}
		revenue[inv.ProductID][inv.InvoiceYear] += inv.Revenue()
		yearSet[inv.InvoiceYear] = true
	}

	products := make([]int, 0, len(revenue))
	for id := range revenue {
		products = append(products, id)
	}
	sort.Ints(products)

	years := make([]int, 0, len(yearSet))
	for year := range yearSet {
		years = append(years, year)
	}
	sort.Ints(years)

	matrix := make([][]float64, len(products))
	for i, id := range products {
		row := make([]float64, len(years))
		for j, year := range years {
			row[j] = revenue[id][year]
		}
		matrix[i] = row
	}

	return domain.Heatmap{Products: products, Years: years, Revenue: matrix}
}

// ProductPerformance returns the per-year revenue and quantity series for a
// single product, ascending by year.
func (d *Dataset) ProductPerformance(productID int) []domain.ProductYearPerformance {
	revenue := make(map[int]float64)
	quantity := make(map[int]int)
	for _, inv := range d.rows {
		if inv.ProductID != productID {
			continue
		}
		revenue[inv.InvoiceYear] += inv.Revenue()
		quantity[inv.InvoiceYear] += inv.Qty
	}

	result := make([]domain.ProductYearPerformance, 0, len(revenue))
	for _, year := range sortedIntKeys(revenue) {
		result = append(result, domain.ProductYearPerformance{
			InvoiceYear: year,
			Revenue:     revenue[year],
			Quantity:    quantity[year],
		})
	}
	return result
}

// MultiProductPerformance returns per-year, per-product revenue for the
// given products, sorted by year then product id. A nil id list means all
// products currently in scope.
func (d *Dataset) MultiProductPerformance(ids []int) ([]domain.MultiProductPoint, error) {
	scope, err := d.FilterByProducts(ids)
	if err != nil {
		return nil, err
	}

	type cell struct{ year, product int }
	revenue := make(map[cell]float64)
	for _, inv := range scope.rows {
		revenue[cell{inv.InvoiceYear, inv.ProductID}] += inv.Revenue()
	}

	result := make([]domain.MultiProductPoint, 0, len(revenue))
	for c, total := range revenue {
		result = append(result, domain.MultiProductPoint{
			InvoiceYear: c.year,
			ProductID:   c.product,
			Revenue:     total,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].InvoiceYear != result[j].InvoiceYear {
			return result[i].InvoiceYear < result[j].InvoiceYear
		}
		return result[i].ProductID < result[j].ProductID
	})
	return result, nil
}

// AvailableYears returns the sorted distinct invoice years, used to
// populate filter controls.
func (d *Dataset) AvailableYears() []int {
	seen := make(map[int]bool)
	for _, inv := range d.rows {
		seen[inv.InvoiceYear] = true
	}
	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// AvailableProducts returns the sorted distinct product ids, used to
// populate filter controls.
func (d *Dataset) AvailableProducts() []int {
	seen := make(map[int]bool)
	for _, inv := range d.rows {
		seen[inv.ProductID] = true
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// sortedIntKeys returns the map keys in ascending order.
func sortedIntKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}
