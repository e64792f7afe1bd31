package domain

import (
	"fmt"
	"strings"
	"time"
)

// InvoiceDateFormat is the fixed wire format for invoice dates (DD/MM/YYYY).
const InvoiceDateFormat = "02/01/2006"

// RequiredColumns lists the column names every invoice CSV must carry.
var RequiredColumns = []string{
	"first_name",
	"last_name",
	"email",
	"product_id",
	"qty",
	"amount",
	"invoice_date",
}

// OptionalColumns are passed through when present and ignored when absent.
var OptionalColumns = []string{
	"address",
	"city",
	"stock_code",
	"job",
}

// Invoice represents a single invoice line-item sale.
type Invoice struct {
	FirstName   string    `json:"first_name" validate:"required"`
	LastName    string    `json:"last_name" validate:"required"`
	Email       string    `json:"email" validate:"required,contains=@"`
	ProductID   int       `json:"product_id" validate:"required"`
	Qty         int       `json:"qty" validate:"gt=0"`
	Amount      float64   `json:"amount" validate:"gt=0"`
	InvoiceDate time.Time `json:"invoice_date"`

	// Optional pass-through fields, not validated.
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	StockCode string `json:"stock_code,omitempty"`
	Job       string `json:"job,omitempty"`

	// Derived fields, populated once by the dataset layer.
	FullName     string  `json:"full_name,omitempty"`
	TotalAmount  float64 `json:"total_amount,omitempty"`
	InvoiceYear  int     `json:"invoice_year,omitempty"`
	InvoiceMonth int     `json:"invoice_month,omitempty"`
	InvoiceDay   int     `json:"invoice_day,omitempty"`
}

// IsDerived reports whether the computed fields have been populated.
// Derivation is idempotent: a derived invoice is never re-derived.
func (inv Invoice) IsDerived() bool {
	return inv.InvoiceYear != 0
}

// Derived returns a copy of the invoice with the computed fields populated.
// Already derived invoices are returned unchanged.
func (inv Invoice) Derived() Invoice {
	if inv.IsDerived() {
		return inv
	}
	inv.FullName = strings.TrimSpace(inv.FirstName + " " + inv.LastName)
	inv.TotalAmount = float64(inv.Qty) * inv.Amount
	inv.InvoiceYear = inv.InvoiceDate.Year()
	inv.InvoiceMonth = int(inv.InvoiceDate.Month())
	inv.InvoiceDay = inv.InvoiceDate.Day()
	return inv
}

// Revenue returns the monetary value of the line item. It prefers the derived
// total and falls back to qty*amount, so aggregations never trust a stale
// stored value over the recomputable product.
func (inv Invoice) Revenue() float64 {
	if inv.TotalAmount != 0 {
		return inv.TotalAmount
	}
	return float64(inv.Qty) * inv.Amount
}

// Key returns a stable identity for duplicate detection across all raw fields.
func (inv Invoice) Key() string {
	return fmt.Sprintf("%s|%s|%s|%d|%d|%.4f|%s|%s|%s|%s|%s",
		inv.FirstName, inv.LastName, inv.Email,
		inv.ProductID, inv.Qty, inv.Amount,
		inv.InvoiceDate.Format(InvoiceDateFormat),
		inv.Address, inv.City, inv.StockCode, inv.Job,
	)
}
