package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicelens/pkg/contracts/domain"
)

// fixtureInvoices builds the canonical five-row set used across the
// dataset tests: three transactions in 2023, two in 2024, three distinct
// customers, two products, total revenue 125.0.
func fixtureInvoices() []domain.Invoice {
	return []domain.Invoice{
		{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", ProductID: 10, Qty: 2, Amount: 10.0,
			InvoiceDate: time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
		{FirstName: "Bob", LastName: "Jones", Email: "bob@example.com", ProductID: 10, Qty: 1, Amount: 30.0,
			InvoiceDate: time.Date(2023, 6, 20, 0, 0, 0, 0, time.UTC)},
		{FirstName: "Carol", LastName: "White", Email: "carol@example.com", ProductID: 20, Qty: 3, Amount: 10.0,
			InvoiceDate: time.Date(2023, 9, 10, 0, 0, 0, 0, time.UTC)},
		{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", ProductID: 20, Qty: 1, Amount: 15.0,
			InvoiceDate: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
		{FirstName: "Bob", LastName: "Jones", Email: "bob@example.com", ProductID: 10, Qty: 2, Amount: 15.0,
			InvoiceDate: time.Date(2024, 11, 25, 0, 0, 0, 0, time.UTC)},
	}
}

func fixtureDataset() *Dataset {
	return New(fixtureInvoices(), nil)
}

func TestNew_DerivesFields(t *testing.T) {
	ds := fixtureDataset()

	rows := ds.Rows()
	require.Len(t, rows, 5)

	first := rows[0]
	assert.Equal(t, "Alice Smith", first.FullName)
	assert.InDelta(t, 20.0, first.TotalAmount, 1e-9)
	assert.Equal(t, 2023, first.InvoiceYear)
	assert.Equal(t, 3, first.InvoiceMonth)
	assert.Equal(t, 15, first.InvoiceDay)
}

func TestNew_DerivationIsIdempotent(t *testing.T) {
	derived := fixtureInvoices()[0].Derived()
	derived.TotalAmount = 999.0 // pretend an upstream layer already set it

	ds := New([]domain.Invoice{derived}, nil)
	assert.InDelta(t, 999.0, ds.Rows()[0].TotalAmount, 1e-9)
}

func TestNew_AppendsDerivedColumns(t *testing.T) {
	ds := New(nil, []string{"first_name", "qty"})

	for _, col := range []string{"full_name", "total_amount", "invoice_year", "invoice_month", "invoice_day"} {
		assert.True(t, ds.HasColumn(col), col)
	}
	assert.False(t, ds.HasColumn("invoice_date"))
}

func TestNew_DefaultColumnSet(t *testing.T) {
	ds := New(nil, nil)

	assert.True(t, ds.HasColumn("invoice_date"))
	assert.True(t, ds.HasColumn("stock_code"))
	assert.True(t, ds.HasColumn("invoice_year"))
}

func TestDataset_RowsIsACopy(t *testing.T) {
	ds := fixtureDataset()

	rows := ds.Rows()
	rows[0].Qty = 999

	assert.Equal(t, 2, ds.Rows()[0].Qty)
}

func TestFilterError_Error(t *testing.T) {
	err := &FilterError{Column: "invoice_year", Available: []string{"qty", "amount"}}
	assert.Contains(t, err.Error(), `"invoice_year"`)
	assert.Contains(t, err.Error(), "qty, amount")
}
