package models

import "time"

// SaleItem is one line of a sale submission. Only the product and the
// quantity travel to the backend; the backend is the price authority at
// settlement time.
type SaleItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// SaleRequest is the payload posted to the sales endpoint. It is built fresh
// from the cart at checkout and never persisted.
type SaleRequest struct {
	Items []SaleItem `json:"items"`
	Notes string     `json:"notes"`
}

// SaleItemResult is the settled counterpart of a SaleItem, priced by the
// backend.
type SaleItemResult struct {
	ProductID   int64   `json:"productId" bson:"product_id"`
	ProductName string  `json:"productName" bson:"product_name"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unitPrice" bson:"unit_price"`
	TotalPrice  float64 `json:"totalPrice" bson:"total_price"`
}

// SaleResult is the backend's settlement of a sale. The register only
// requires TotalAmount; the rest is carried for the journal and the operator
// display.
type SaleResult struct {
	SaleID      string           `json:"saleId" bson:"sale_id"`
	Items       []SaleItemResult `json:"items" bson:"items"`
	TotalAmount float64          `json:"totalAmount" bson:"total_amount"`
	Notes       string           `json:"notes" bson:"notes"`
	CreatedAt   time.Time        `json:"createdAt" bson:"created_at"`
}
