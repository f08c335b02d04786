package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kedialo/barpos/internal/domain/models"
)

// InventoryClient is the slice of the backend API the catalog needs.
type InventoryClient interface {
	ListInventory(ctx context.Context, categoryID *int64) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Catalog holds the most recently fetched set of sellable products and
// categories. A refresh replaces the product set wholesale; cart lines keep
// the price and stock ceiling they captured at add time and are not corrected
// retroactively.
type Catalog struct {
	client InventoryClient
	logger *zap.Logger

	mu         sync.RWMutex
	products   []models.Product
	categories []models.Category

	// token tags each fetch so that an in-flight response superseded by a
	// newer one (e.g. a quick category filter change) is discarded instead of
	// overwriting fresher data.
	token atomic.Uint64
}

// New wires a catalog around the backend client.
func New(client InventoryClient, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{client: client, logger: logger}
}

// Refresh fetches the product set, optionally scoped to a category, and
// applies it if no newer refresh was issued while this one was in flight.
// The fetched products are returned either way.
func (c *Catalog) Refresh(ctx context.Context, categoryID *int64) ([]models.Product, error) {
	token := c.token.Add(1)

	products, err := c.client.ListInventory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token.Load() {
		c.logger.Debug("discarding superseded inventory fetch",
			zap.Uint64("token", token),
			zap.Uint64("latest", c.token.Load()))
		return products, nil
	}

	c.products = products
	c.logger.Debug("catalog refreshed", zap.Int("products", len(products)))
	return products, nil
}

// RefreshCategories fetches the category list. Categories are a secondary
// affordance, so failures are logged and swallowed; the last fetched list
// stays in place.
func (c *Catalog) RefreshCategories(ctx context.Context) {
	categories, err := c.client.ListCategories(ctx)
	if err != nil {
		c.logger.Warn("failed to fetch categories", zap.Error(err))
		return
	}

	c.mu.Lock()
	c.categories = categories
	c.mu.Unlock()
}

// Products returns a copy of the current product set.
func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Categories returns a copy of the last fetched category list.
func (c *Catalog) Categories() []models.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}
