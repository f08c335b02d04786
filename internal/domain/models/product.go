package models

import "time"

// Product is one sellable inventory row as reported by the backend. The
// quantity is the authoritative stock level at fetch time; the catalog
// replaces the whole set on every refresh and never mutates rows in place.
type Product struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organizationId"`
	ProductID      int64     `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       int       `json:"quantity"`
	UnitPrice      float64   `json:"unitPrice"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Category is used only to filter catalog fetches.
type Category struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	OrganizationID int64  `json:"organizationId"`
}

// StockStatus classifies how sellable a product currently is.
type StockStatus string

const (
	OutOfStock StockStatus = "Out of Stock"
	LowStock   StockStatus = "Low Stock"
	InStock    StockStatus = "In Stock"
)

// lowStockThreshold is a fixed policy constant: anything below it (but above
// zero) is flagged as running low.
const lowStockThreshold = 10

// ClassifyStock derives the stock status from a quantity.
func ClassifyStock(quantity int) StockStatus {
	switch {
	case quantity == 0:
		return OutOfStock
	case quantity < lowStockThreshold:
		return LowStock
	default:
		return InStock
	}
}
