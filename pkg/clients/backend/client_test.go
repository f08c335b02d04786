package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedialo/barpos/internal/config"
	"github.com/kedialo/barpos/internal/domain/models"
	"github.com/kedialo/barpos/pkg/clients/backend"
)

func newClient(srvURL string) *backend.APIClient {
	return backend.NewClient(config.BackendConfig{
		BaseURL:       srvURL,
		SessionCookie: "jwt=operator-session",
		Timeout:       5 * time.Second,
	})
}

func TestListInventory_ParsesProductsAndForwardsCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory", r.URL.Path)
		assert.Equal(t, "jwt=operator-session", r.Header.Get("Cookie"))
		assert.Empty(t, r.URL.Query().Get("categoryId"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"productId":1,"productName":"Lager","quantity":5,"unitPrice":2.0}]`))
	}))
	defer srv.Close()

	products, err := newClient(srv.URL).ListInventory(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Lager", products[0].ProductName)
	assert.Equal(t, 5, products[0].Quantity)
}

func TestListInventory_SendsCategoryFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("categoryId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	id := int64(7)
	_, err := newClient(srv.URL).ListInventory(context.Background(), &id)
	require.NoError(t, err)
}

func TestListInventory_UpstreamFailureIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).ListInventory(context.Background(), nil)

	var fetchErr *backend.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusBadGateway, fetchErr.Status)
}

func TestListCategories_ParsesCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Beer"},{"id":2,"name":"Spirits"}]`))
	}))
	defer srv.Close()

	categories, err := newClient(srv.URL).ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Spirits", categories[1].Name)
}

func TestSubmitSale_PostsItemsWithoutPrices(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sales", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"saleId":"SALE-9","totalAmount":14.0,"items":[]}`))
	}))
	defer srv.Close()

	req := models.SaleRequest{
		Items: []models.SaleItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
		Notes: "POS Sale",
	}

	result, err := newClient(srv.URL).SubmitSale(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "SALE-9", result.SaleID)
	assert.InDelta(t, 14.00, result.TotalAmount, 1e-9)

	assert.Equal(t, "POS Sale", body["notes"])
	items := body["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.NotContains(t, first, "unitPrice", "the backend is the price authority")
}

func TestSubmitSale_UpstreamRejectionCarriesBodyVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("insufficient stock"))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).SubmitSale(context.Background(), models.SaleRequest{
		Items: []models.SaleItem{{ProductID: 1, Quantity: 1}},
	})

	var saleErr *backend.SaleError
	require.ErrorAs(t, err, &saleErr)
	assert.Equal(t, http.StatusBadRequest, saleErr.Status)
	assert.Equal(t, "insufficient stock", err.Error())
}

func TestSubmitSale_EmptyErrorBodyGetsGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).SubmitSale(context.Background(), models.SaleRequest{
		Items: []models.SaleItem{{ProductID: 1, Quantity: 1}},
	})

	require.Error(t, err)
	assert.Equal(t, "failed to process sale", err.Error())
}

func TestSubmitSale_NetworkFailureIsSaleError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newClient(srv.URL).SubmitSale(context.Background(), models.SaleRequest{
		Items: []models.SaleItem{{ProductID: 1, Quantity: 1}},
	})

	var saleErr *backend.SaleError
	assert.True(t, errors.As(err, &saleErr))
}
