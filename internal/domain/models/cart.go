package models

// CartLine is one product entry in the register's cart. Name, unit price and
// the stock ceiling are captured when the line is created and are not
// re-synced if the catalog changes afterwards: the price a customer saw when
// the item went in is the price the register displays until checkout, and the
// ceiling keeps the line from outgrowing the stock that existed at add time.
type CartLine struct {
	ProductID   int64   `json:"productId" bson:"product_id"`
	ProductName string  `json:"productName" bson:"product_name"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	MaxQuantity int     `json:"maxQuantity" bson:"max_quantity"`
	UnitPrice   float64 `json:"unitPrice" bson:"unit_price"`
}

// Subtotal is the line's contribution to the cart total.
func (l CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}
