package filecart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/kedialo/barpos/internal/domain/models"
)

const (
	cartSlotFile = "pos-cart.json"
	journalFile  = "sales-journal.jsonl"
)

// Repository keeps the cart in a single named JSON slot on disk, overwritten
// on every save and read once at startup. It is process-local and
// single-writer; nothing coordinates concurrent registers pointed at the same
// directory.
type Repository struct {
	slotPath    string
	journalPath string
	logger      *zap.Logger

	mu sync.Mutex
}

// New prepares the storage directory and returns a file-backed repository.
func New(dir string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
	}

	return &Repository{
		slotPath:    filepath.Join(dir, cartSlotFile),
		journalPath: filepath.Join(dir, journalFile),
		logger:      logger,
	}, nil
}

// Load reads the cart slot. A missing slot yields an empty cart, not an error.
func (r *Repository) Load(_ context.Context) ([]models.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.slotPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart slot: %w", err)
	}

	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("decode cart slot: %w", err)
	}

	return lines, nil
}

// Save overwrites the cart slot with the full line sequence. The write goes
// through a temp file and a rename so a crash mid-write cannot leave a
// half-written slot behind.
func (r *Repository) Save(_ context.Context, lines []models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lines == nil {
		lines = []models.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart slot: %w", err)
	}

	tmp := r.slotPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cart slot: %w", err)
	}
	if err := os.Rename(tmp, r.slotPath); err != nil {
		return fmt.Errorf("replace cart slot: %w", err)
	}

	return nil
}

// RecordSale appends the settled sale to the local journal, one JSON document
// per line.
func (r *Repository) RecordSale(_ context.Context, result models.SaleResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode sale record: %w", err)
	}

	f, err := os.OpenFile(r.journalPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open sale journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append sale journal: %w", err)
	}

	return nil
}
