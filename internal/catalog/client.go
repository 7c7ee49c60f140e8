package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-bff/internal/domain"

	"github.com/goccy/go-json"
)

// APIError is returned for any non-2xx answer from the commerce backend.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return domain.ErrBackendUnhealthy
}

// Client talks to the external commerce backend.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListCatalog fetches one page of the catalog listing described by key.
func (c *Client) ListCatalog(ctx context.Context, key domain.QueryKey, limit int) (*domain.CatalogPage, error) {
	q := url.Values{}
	page := key.Page
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if key.PriceMin > 0 || key.PriceMax > 0 {
		q.Set("minPrice", strconv.FormatFloat(key.PriceMin, 'f', -1, 64))
		q.Set("maxPrice", strconv.FormatFloat(key.PriceMax, 'f', -1, 64))
	}
	if key.InStock {
		q.Set("inStock", "true")
	}
	if key.Categories != "" {
		for _, cat := range strings.Split(key.Categories, ",") {
			q.Add("categories[]", cat)
		}
	}
	if key.Sort != "" {
		q.Set("sort", string(key.Sort))
	}

	var out domain.CatalogPage
	path := "/catalog/" + url.PathEscape(key.Category)
	if err := c.do(ctx, http.MethodGet, path, q, nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		out.Products = []domain.Product{}
	}
	return &out, nil
}

type searchResponse struct {
	Products []domain.Product `json:"products"`
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.Product, error) {
	var out searchResponse
	if err := c.do(ctx, http.MethodGet, "/search", url.Values{"query": {query}}, nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		out.Products = []domain.Product{}
	}
	return out.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder submits an order. The idempotency key is also sent as a header
// so a retried submission is not booked twice.
func (c *Client) CreateOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderConfirmation, error) {
	headers := http.Header{}
	if order.IdempotencyKey != "" {
		headers.Set("Idempotency-Key", order.IdempotencyKey)
	}
	var out domain.OrderConfirmation
	if err := c.do(ctx, http.MethodPost, "/orders", nil, headers, order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers http.Header, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(domain.ErrBackendUnhealthy, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
