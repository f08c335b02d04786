package pos

import (
	"iter"
	"strings"

	"github.com/kedialo/barpos/internal/domain/models"
)

// FilterProducts yields the products whose name contains the search term,
// case-insensitively. The sequence is lazy and restartable: it is re-derived
// from the snapshot on every iteration and never mutates it. An empty term
// matches everything.
func FilterProducts(products []models.Product, term string) iter.Seq[models.Product] {
	needle := strings.ToLower(strings.TrimSpace(term))

	return func(yield func(models.Product) bool) {
		for _, p := range products {
			if needle != "" && !strings.Contains(strings.ToLower(p.ProductName), needle) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// ProductView is a product decorated with the register's derived projections.
type ProductView struct {
	models.Product
	StockStatus models.StockStatus `json:"stockStatus"`
	InCart      int                `json:"inCart"`
}

// CartView is the cart sidebar projection: the ordered lines plus the
// recomputed total.
type CartView struct {
	Lines []models.CartLine `json:"lines"`
	Total float64           `json:"total"`
}
