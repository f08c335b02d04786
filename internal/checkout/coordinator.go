package checkout

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kedialo/barpos/internal/domain/models"
)

// defaultSaleNote is attached to every sale submitted by the register.
const defaultSaleNote = "POS Sale"

// State enumerates the coordinator's submission state machine.
type State int32

const (
	StateIdle State = iota
	StateSubmitting
)

// ErrCheckoutInFlight is returned when a checkout is attempted while another
// one is still outstanding. The first submission is unaffected; nothing is
// queued.
var ErrCheckoutInFlight = errors.New("a checkout is already in flight")

// SalesClient is the slice of the backend API the coordinator needs.
type SalesClient interface {
	SubmitSale(ctx context.Context, req models.SaleRequest) (*models.SaleResult, error)
}

// Cart is the view of the cart store the coordinator operates on.
type Cart interface {
	Lines() []models.CartLine
	Clear(ctx context.Context) error
}

// CatalogRefresher re-fetches the product set after a settled sale so the
// register shows the decremented stock.
type CatalogRefresher interface {
	Refresh(ctx context.Context, categoryID *int64) ([]models.Product, error)
}

// Journal records settled sales locally, best effort.
type Journal interface {
	RecordSale(ctx context.Context, result models.SaleResult) error
}

// Coordinator converts the cart into a sale request, submits it as a single
// unit and settles the register state on success. The backend decrements
// stock for all lines atomically; from here the sale is all-or-nothing.
type Coordinator struct {
	sales   SalesClient
	cart    Cart
	catalog CatalogRefresher
	journal Journal
	logger  *zap.Logger

	state atomic.Int32
}

// New wires a checkout coordinator. The journal may be nil.
func New(sales SalesClient, cart Cart, catalog CatalogRefresher, journal Journal, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{sales: sales, cart: cart, catalog: catalog, journal: journal, logger: logger}
}

// State reports whether a submission is outstanding.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Checkout submits the current cart for settlement. An empty cart returns
// immediately with no network call. On failure the cart is left untouched so
// the operator can retry; on success the cart is cleared, the sale is
// journaled and the catalog is refreshed with the given category filter.
func (c *Coordinator) Checkout(ctx context.Context, categoryFilter *int64) (*models.SaleResult, error) {
	lines := c.cart.Lines()
	if len(lines) == 0 {
		return nil, nil
	}

	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateSubmitting)) {
		return nil, ErrCheckoutInFlight
	}
	defer c.state.Store(int32(StateIdle))

	req := models.SaleRequest{
		Items: make([]models.SaleItem, 0, len(lines)),
		Notes: defaultSaleNote,
	}
	// Prices stay home: the backend settles each line at its own price.
	for _, line := range lines {
		req.Items = append(req.Items, models.SaleItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	result, err := c.sales.SubmitSale(ctx, req)
	if err != nil {
		c.logger.Error("sale submission failed", zap.Error(err), zap.Int("lines", len(lines)))
		return nil, err
	}

	if err := c.cart.Clear(ctx); err != nil {
		// Storage-only failure; the in-memory cart is already empty.
		c.logger.Warn("failed to persist cleared cart", zap.Error(err))
	}

	if c.journal != nil {
		if err := c.journal.RecordSale(ctx, *result); err != nil {
			c.logger.Warn("failed to journal sale", zap.Error(err), zap.String("sale_id", result.SaleID))
		}
	}

	if _, err := c.catalog.Refresh(ctx, categoryFilter); err != nil {
		c.logger.Warn("post-sale catalog refresh failed", zap.Error(err))
	}

	c.logger.Info("sale settled",
		zap.String("sale_id", result.SaleID),
		zap.Float64("total", result.TotalAmount),
		zap.Int("lines", len(lines)))

	return result, nil
}
