package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-bff/internal/domain"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListCatalogEncodesQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"id":"p1","name":"Sencha","price":12.5,"stock":3}],"page":2,"totalPages":4,"total":70}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	snap := domain.FilterSnapshot{
		Categories: []string{"green", "black"},
		PriceRange: domain.PriceRange{Min: 5, Max: 50},
		InStock:    true,
		Sort:       domain.SortPriceAsc,
	}

	page, err := c.ListCatalog(context.Background(), snap.Key("tea", 2), 20)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/catalog/tea", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "5", q.Get("minPrice"))
	assert.Equal(t, "50", q.Get("maxPrice"))
	assert.Equal(t, "true", q.Get("inStock"))
	assert.Equal(t, []string{"black", "green"}, q["categories[]"])
	assert.Equal(t, "price-asc", q.Get("sort"))

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, int64(70), page.Total)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Sencha", page.Products[0].Name)
}

func TestClient_ListCatalogOmitsUnsetFilters(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"page":1,"totalPages":0,"total":0}`))
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, time.Second).ListCatalog(context.Background(), domain.QueryKey{Category: "all"}, 0)
	require.NoError(t, err)

	assert.NotContains(t, query, "minPrice")
	assert.NotContains(t, query, "inStock")
	assert.NotContains(t, query, "categories[]")
	assert.NotNil(t, page.Products)
}

func TestClient_NotFoundMapsToDomainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such product", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).GetProduct(context.Background(), "missing")

	require.ErrorIs(t, err, domain.ErrNotFound)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "/products/missing", apiErr.Path)
	assert.Equal(t, "no such product", apiErr.Body)
}

func TestClient_ServerErrorIsBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Search(context.Background(), "tea")
	assert.ErrorIs(t, err, domain.ErrBackendUnhealthy)
}

func TestClient_CreateOrderSendsIdempotencyKey(t *testing.T) {
	var received domain.OrderRequest
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"o-1","status":"new","total":310}`))
	}))
	defer srv.Close()

	conf, err := NewClient(srv.URL, time.Second).CreateOrder(context.Background(), domain.OrderRequest{
		IdempotencyKey: "key-1",
		Items:          []domain.OrderItem{{ProductID: "p1", Quantity: 2, Price: 80}},
		Total:          160,
	})
	require.NoError(t, err)

	assert.Equal(t, "key-1", header)
	assert.Equal(t, "p1", received.Items[0].ProductID)
	assert.Equal(t, "o-1", conf.ID)
}

func TestClient_SearchSendsQuery(t *testing.T) {
	var q string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{"products":[{"id":"p9","name":"Puer"}]}`))
	}))
	defer srv.Close()

	products, err := NewClient(srv.URL, time.Second).Search(context.Background(), "pu er")
	require.NoError(t, err)

	assert.Equal(t, "pu er", q)
	require.Len(t, products, 1)
	assert.Equal(t, "p9", products[0].ID)
}
