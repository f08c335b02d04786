package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kedialo/barpos/internal/domain/models"
)

// Store owns the register's cart: an ordered sequence of lines, unique by
// product, with every line holding 1 <= quantity <= maxQuantity. All
// mutations mirror the cart into durable storage before returning; a storage
// failure is reported but leaves the in-memory cart authoritative, so the
// register keeps working for the rest of the session.
type Store struct {
	storage Storage
	logger  *zap.Logger

	mu    sync.Mutex
	lines []models.CartLine
}

// NewStore wires a cart store around a storage slot.
func NewStore(storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: storage, logger: logger}
}

// Hydrate loads the persisted cart, once, at startup. An absent slot yields
// an empty cart.
func (s *Store) Hydrate(ctx context.Context) error {
	lines, err := s.storage.Load(ctx)
	if err != nil {
		return &StorageError{Op: "load", Err: err}
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()

	if len(lines) > 0 {
		s.logger.Info("cart restored from storage", zap.Int("lines", len(lines)))
	}
	return nil
}

// AddItem puts one unit of the product in the cart. An existing line is
// incremented only while below the stock ceiling it captured when it was
// created; a new line is admitted only if the product has live stock. Note
// the asymmetry: new lines check the live quantity, existing lines check
// their frozen snapshot.
func (s *Store) AddItem(ctx context.Context, product models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID != product.ProductID {
			continue
		}
		if s.lines[i].Quantity >= s.lines[i].MaxQuantity {
			return nil
		}
		s.lines[i].Quantity++
		return s.persist(ctx)
	}

	if product.Quantity <= 0 {
		return nil
	}

	s.lines = append(s.lines, models.CartLine{
		ProductID:   product.ProductID,
		ProductName: product.ProductName,
		Quantity:    1,
		MaxQuantity: product.Quantity,
		UnitPrice:   product.UnitPrice,
	})
	return s.persist(ctx)
}

// AdjustQuantity applies a signed delta to a line. A result at or below zero
// deletes the line; a result above the line's ceiling is silently rejected
// (the clamp). Unknown products are a no-op.
func (s *Store) AdjustQuantity(ctx context.Context, productID int64, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID != productID {
			continue
		}

		newQuantity := s.lines[i].Quantity + delta
		switch {
		case newQuantity <= 0:
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		case newQuantity <= s.lines[i].MaxQuantity:
			s.lines[i].Quantity = newQuantity
		default:
			return nil
		}
		return s.persist(ctx)
	}

	return nil
}

// RemoveItem deletes the line for the product unconditionally.
func (s *Store) RemoveItem(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return s.persist(ctx)
		}
	}

	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		return nil
	}

	s.lines = nil
	return s.persist(ctx)
}

// Lines returns a copy of the cart's ordered line sequence.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len reports the number of lines in the cart.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Total recomputes the cart total from the lines' frozen unit prices.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

// persist mirrors the in-memory cart into the storage slot. Callers hold the
// lock. The in-memory cart stays authoritative when the write fails.
func (s *Store) persist(ctx context.Context) error {
	if err := s.storage.Save(ctx, s.lines); err != nil {
		s.logger.Warn("cart persistence unavailable, continuing in memory", zap.Error(err))
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}
