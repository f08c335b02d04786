package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/kedialo/barpos/internal/config"
	"github.com/kedialo/barpos/internal/domain/models"
)

// Client exposes the inventory/sales API operations used by the register.
type Client interface {
	ListInventory(ctx context.Context, categoryID *int64) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	SubmitSale(ctx context.Context, req models.SaleRequest) (*models.SaleResult, error)
}

// APIClient is a resty-backed implementation of Client. It attaches the
// operator's session cookie to every request, the same way the original
// same-origin proxy forwarded the caller's cookie upstream.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a backend API client using the provided configuration values.
func NewClient(cfg config.BackendConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	if cfg.SessionCookie != "" {
		restyClient.SetHeader("Cookie", cfg.SessionCookie)
	}

	return &APIClient{httpClient: restyClient}
}

// FetchError reports a failed catalog or category retrieval.
type FetchError struct {
	Resource string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: upstream returned status %d", e.Resource, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SaleError reports a failed sale submission. Body carries the upstream
// response text verbatim so the operator sees exactly what the backend said
// (e.g. which product ran out of stock).
type SaleError struct {
	Status int
	Body   string
	Err    error
}

func (e *SaleError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Err != nil {
		return fmt.Sprintf("failed to process sale: %v", e.Err)
	}
	return "failed to process sale"
}

func (e *SaleError) Unwrap() error { return e.Err }

// ListInventory fetches the sellable product set, optionally scoped to one
// category.
func (c *APIClient) ListInventory(ctx context.Context, categoryID *int64) ([]models.Product, error) {
	var products []models.Product

	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(&products)
	if categoryID != nil {
		req.SetQueryParam("categoryId", strconv.FormatInt(*categoryID, 10))
	}

	resp, err := req.Get("/inventory")
	if err != nil {
		return nil, &FetchError{Resource: "inventory", Err: err}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &FetchError{Resource: "inventory", Status: resp.StatusCode()}
	}

	return products, nil
}

// ListCategories fetches the category list used for catalog filtering.
func (c *APIClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&categories).
		Get("/categories")
	if err != nil {
		return nil, &FetchError{Resource: "categories", Err: err}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &FetchError{Resource: "categories", Status: resp.StatusCode()}
	}

	return categories, nil
}

// SubmitSale posts a sale for settlement. The backend decrements stock for
// all lines atomically; the register never sees a partial success.
func (c *APIClient) SubmitSale(ctx context.Context, req models.SaleRequest) (*models.SaleResult, error) {
	result := new(models.SaleResult)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(result).
		Post("/sales")
	if err != nil {
		return nil, &SaleError{Err: err}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &SaleError{Status: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}

	return result, nil
}
