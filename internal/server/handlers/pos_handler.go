package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kedialo/barpos/internal/checkout"
	"github.com/kedialo/barpos/internal/pos"
	"github.com/kedialo/barpos/pkg/clients/backend"
)

// PosHandler exposes the register controller's operations over HTTP.
type PosHandler struct {
	controller *pos.Controller
	logger     *zap.Logger
}

// NewPosHandler constructs the HTTP handler adapter.
func NewPosHandler(controller *pos.Controller, logger *zap.Logger) *PosHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PosHandler{controller: controller, logger: logger}
}

// ListProducts returns the filtered product grid. The search term applies
// immediately; a changed category filter triggers a catalog refetch before
// the grid is derived.
func (h *PosHandler) ListProducts(c *gin.Context) {
	h.controller.SetSearch(c.Query("search"))

	requested, err := parseCategoryParam(c.Query("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "categoryId must be an integer"})
		return
	}

	if !sameCategory(requested, h.controller.CategoryFilter()) {
		if err := h.controller.SetCategory(c.Request.Context(), requested); err != nil {
			h.logger.Warn("catalog refresh failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"products": h.controller.Products(),
		"status":   h.controller.Status(),
	})
}

// Refresh re-fetches the catalog with the current filter, for retrying after
// an error banner.
func (h *PosHandler) Refresh(c *gin.Context) {
	if err := h.controller.RefreshProducts(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": h.controller.Products(),
		"status":   h.controller.Status(),
	})
}

// ListCategories returns the category filter options.
func (h *PosHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Categories())
}

// GetCart returns the cart sidebar projection.
func (h *PosHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Cart())
}

type addItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
}

// AddItem adds one unit of a product to the cart. Clamped or out-of-stock
// adds are silent no-ops, so the response is always the resulting cart.
func (h *PosHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.controller.AddItem(c.Request.Context(), req.ProductID); err != nil {
		if errors.Is(err, pos.ErrUnknownProduct) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		// Persistence failure only; the in-memory cart took the mutation.
		h.logger.Warn("cart persisted in memory only", zap.Error(err))
	}

	c.JSON(http.StatusOK, h.controller.Cart())
}

type adjustQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustQuantity applies a signed delta to a cart line.
func (h *PosHandler) AdjustQuantity(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId must be an integer"})
		return
	}

	var req adjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.controller.AdjustQuantity(c.Request.Context(), productID, req.Delta); err != nil {
		h.logger.Warn("cart persisted in memory only", zap.Error(err))
	}

	c.JSON(http.StatusOK, h.controller.Cart())
}

// RemoveItem deletes a cart line.
func (h *PosHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId must be an integer"})
		return
	}

	if err := h.controller.RemoveItem(c.Request.Context(), productID); err != nil {
		h.logger.Warn("cart persisted in memory only", zap.Error(err))
	}

	c.JSON(http.StatusOK, h.controller.Cart())
}

// ClearCart empties the cart.
func (h *PosHandler) ClearCart(c *gin.Context) {
	if err := h.controller.ClearCart(c.Request.Context()); err != nil {
		h.logger.Warn("cart persisted in memory only", zap.Error(err))
	}
	c.JSON(http.StatusOK, h.controller.Cart())
}

// Checkout submits the cart for settlement. Upstream rejections are forwarded
// with their status code and body text so the operator sees exactly what the
// backend said; the cart stays intact for retry.
func (h *PosHandler) Checkout(c *gin.Context) {
	result, err := h.controller.Checkout(c.Request.Context())
	if err != nil {
		var saleErr *backend.SaleError
		switch {
		case errors.Is(err, checkout.ErrCheckoutInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &saleErr) && saleErr.Status != 0:
			c.String(saleErr.Status, saleErr.Error())
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	if result == nil {
		// Empty cart: nothing to submit.
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sale": result,
		"cart": h.controller.Cart(),
	})
}

func parseCategoryParam(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func sameCategory(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
