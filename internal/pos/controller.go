package pos

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kedialo/barpos/internal/cart"
	"github.com/kedialo/barpos/internal/catalog"
	"github.com/kedialo/barpos/internal/checkout"
	"github.com/kedialo/barpos/internal/domain/models"
)

// ErrUnknownProduct is returned when an operator action names a product that
// is not in the current catalog snapshot.
var ErrUnknownProduct = errors.New("product not in the current catalog")

// Controller is the register's composition point: it wires operator actions
// (search, filter, cart mutations, checkout) to the catalog, the cart store
// and the checkout coordinator, and derives the view-only projections the
// operator surface renders.
type Controller struct {
	catalog  *catalog.Catalog
	cart     *cart.Store
	checkout *checkout.Coordinator
	logger   *zap.Logger

	mu             sync.RWMutex
	searchTerm     string
	categoryFilter *int64
	loading        bool
	lastError      string
}

// Status is the register's busy/error state for the operator header.
type Status struct {
	Loading        bool   `json:"loading"`
	ProcessingSale bool   `json:"processingSale"`
	Error          string `json:"error,omitempty"`
}

// NewController wires the register controller.
func NewController(cat *catalog.Catalog, store *cart.Store, coord *checkout.Coordinator, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{catalog: cat, cart: store, checkout: coord, logger: logger}
}

// Start performs the initial load: products and categories. A product fetch
// failure is surfaced as the error banner; a category fetch failure is
// swallowed inside the catalog.
func (c *Controller) Start(ctx context.Context) {
	c.catalog.RefreshCategories(ctx)
	if err := c.RefreshProducts(ctx); err != nil {
		c.logger.Warn("initial product load failed", zap.Error(err))
	}
}

// RefreshProducts re-fetches the product set with the current category
// filter. The loading flag covers the whole round trip; on failure the error
// banner is set and the previous product set stays hidden behind it.
func (c *Controller) RefreshProducts(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	filter := c.categoryFilter
	c.mu.Unlock()

	_, err := c.catalog.Refresh(ctx, filter)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.lastError = err.Error()
	} else {
		c.lastError = ""
	}
	c.mu.Unlock()

	return err
}

// SetSearch updates the search term. Filtering is derived at read time, so
// no fetch happens here.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	c.searchTerm = term
	c.mu.Unlock()
}

// SetCategory changes the category filter and triggers a refresh. A nil ID
// means all categories.
func (c *Controller) SetCategory(ctx context.Context, categoryID *int64) error {
	c.mu.Lock()
	c.categoryFilter = categoryID
	c.mu.Unlock()

	return c.RefreshProducts(ctx)
}

// CategoryFilter returns the current category filter, nil meaning all.
func (c *Controller) CategoryFilter() *int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.categoryFilter
}

// Products derives the filtered product grid with stock status and in-cart
// quantities.
func (c *Controller) Products() []ProductView {
	c.mu.RLock()
	term := c.searchTerm
	c.mu.RUnlock()

	inCart := make(map[int64]int)
	for _, line := range c.cart.Lines() {
		inCart[line.ProductID] = line.Quantity
	}

	views := []ProductView{}
	for p := range FilterProducts(c.catalog.Products(), term) {
		views = append(views, ProductView{
			Product:     p,
			StockStatus: models.ClassifyStock(p.Quantity),
			InCart:      inCart[p.ProductID],
		})
	}
	return views
}

// Categories returns the last fetched category list.
func (c *Controller) Categories() []models.Category {
	return c.catalog.Categories()
}

// Cart returns the cart projection for the sidebar.
func (c *Controller) Cart() CartView {
	return CartView{
		Lines: c.cart.Lines(),
		Total: c.cart.Total(),
	}
}

// AddItem puts one unit of the product in the cart, looked up in the current
// catalog snapshot so the live stock level governs new-line admission.
func (c *Controller) AddItem(ctx context.Context, productID int64) error {
	for _, p := range c.catalog.Products() {
		if p.ProductID == productID {
			return c.cart.AddItem(ctx, p)
		}
	}
	return ErrUnknownProduct
}

// AdjustQuantity applies a signed delta to a cart line.
func (c *Controller) AdjustQuantity(ctx context.Context, productID int64, delta int) error {
	return c.cart.AdjustQuantity(ctx, productID, delta)
}

// RemoveItem deletes a cart line.
func (c *Controller) RemoveItem(ctx context.Context, productID int64) error {
	return c.cart.RemoveItem(ctx, productID)
}

// ClearCart empties the cart.
func (c *Controller) ClearCart(ctx context.Context) error {
	return c.cart.Clear(ctx)
}

// Checkout submits the cart for settlement under the current category filter.
func (c *Controller) Checkout(ctx context.Context) (*models.SaleResult, error) {
	c.mu.RLock()
	filter := c.categoryFilter
	c.mu.RUnlock()

	return c.checkout.Checkout(ctx, filter)
}

// Status reports the busy flags and the current error banner.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Status{
		Loading:        c.loading,
		ProcessingSale: c.checkout.State() == checkout.StateSubmitting,
		Error:          c.lastError,
	}
}
