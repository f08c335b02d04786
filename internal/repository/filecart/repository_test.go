package filecart_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedialo/barpos/internal/domain/models"
	"github.com/kedialo/barpos/internal/repository/filecart"
)

func TestLoad_MissingSlotYieldsEmptyCart(t *testing.T) {
	repo, err := filecart.New(t.TempDir(), nil)
	require.NoError(t, err)

	lines, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, lines)
}

func TestSaveLoad_RoundTripPreservesOrder(t *testing.T) {
	repo, err := filecart.New(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	lines := []models.CartLine{
		{ProductID: 2, ProductName: "Stout", Quantity: 2, MaxQuantity: 4, UnitPrice: 3.00},
		{ProductID: 1, ProductName: "Lager", Quantity: 1, MaxQuantity: 5, UnitPrice: 2.00},
	}

	require.NoError(t, repo.Save(ctx, lines))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestSave_OverwritesPreviousSlot(t *testing.T) {
	repo, err := filecart.New(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []models.CartLine{{ProductID: 1, Quantity: 1, MaxQuantity: 2}}))
	require.NoError(t, repo.Save(ctx, nil))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad_CorruptSlotReportsError(t *testing.T) {
	dir := t.TempDir()
	repo, err := filecart.New(dir, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pos-cart.json"), []byte("{not json"), 0o644))

	_, err = repo.Load(context.Background())
	assert.Error(t, err)
}

func TestRecordSale_AppendsJournalLines(t *testing.T) {
	dir := t.TempDir()
	repo, err := filecart.New(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	first := models.SaleResult{SaleID: "SALE-1", TotalAmount: 14.00, CreatedAt: time.Now().UTC()}
	second := models.SaleResult{SaleID: "SALE-2", TotalAmount: 3.50, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.RecordSale(ctx, first))
	require.NoError(t, repo.RecordSale(ctx, second))

	data, err := os.ReadFile(filepath.Join(dir, "sales-journal.jsonl"))
	require.NoError(t, err)

	records := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, records, 2)

	var got models.SaleResult
	require.NoError(t, json.Unmarshal([]byte(records[1]), &got))
	assert.Equal(t, "SALE-2", got.SaleID)
	assert.InDelta(t, 3.50, got.TotalAmount, 1e-9)
}
