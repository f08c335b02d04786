package cart

import (
	"context"
	"fmt"

	"github.com/kedialo/barpos/internal/domain/models"
)

// Storage is the durable slot holding the serialized cart. The store writes
// the full line sequence after every mutation and reads it back once at
// startup. An absent slot is not an error: Load returns (nil, nil) and the
// register starts with an empty cart.
type Storage interface {
	Load(ctx context.Context) ([]models.CartLine, error)
	Save(ctx context.Context, lines []models.CartLine) error
}

// StorageError reports that the durable slot is unavailable. It is never
// fatal: the cart keeps operating in memory for the rest of the session.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cart storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
