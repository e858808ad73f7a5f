package catalog_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"GoldCatalog/internal/catalog"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Total   *int            `json:"total"`
}

type product struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	PopularityScore  float64           `json:"popularityScore"`
	Weight           float64           `json:"weight"`
	Images           map[string]string `json:"images"`
	Price            float64           `json:"price"`
	PopularityRating float64           `json:"popularityRating"`
	GoldPrice        float64           `json:"goldPrice"`
}

func newCatalogTS(t *testing.T, src catalog.Source, deps catalog.HTTPDeps) *httptest.Server {
	t.Helper()

	o := &fixedOracle{price: d("65")}
	s := &catalog.Server{
		Pricer:   &catalog.Pricer{Source: src, Oracle: o},
		Gold:     o,
		Instance: "test-instance",
		Now:      func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 6e6, time.UTC) },
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	deps.Service = "catalog"

	ts := httptest.NewServer(catalog.NewHandler(s, deps))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func getEnvelope(t *testing.T, url string, wantStatus int) envelope {
	t.Helper()

	resp, raw := do(t, http.MethodGet, url)
	require.Equal(t, wantStatus, resp.StatusCode, "body=%s", raw)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body=%s", raw)
	return env
}

func TestHTTP_ListProducts(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewMemSource(sampleRecords()...), catalog.HTTPDeps{})

	env := getEnvelope(t, ts.URL+"/api/products", http.StatusOK)
	require.True(t, env.Success)
	require.NotNil(t, env.Total)
	assert.Equal(t, 3, *env.Total)

	var got []product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 3)

	p := got[1]
	assert.Equal(t, 2, p.ID)
	assert.Equal(t, "Engagement Ring 2", p.Name)
	assert.Equal(t, 975.0, p.Price)
	assert.Equal(t, 2.5, p.PopularityRating)
	assert.Equal(t, 65.0, p.GoldPrice)
	assert.Equal(t, 0.5, p.PopularityScore)
	assert.Equal(t, 10.0, p.Weight)
	assert.Equal(t, "Engagement Ring 2-r.jpg", p.Images["rose"])
}

func TestHTTP_ListProductsFiltered(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewMemSource(sampleRecords()...), catalog.HTTPDeps{})

	env := getEnvelope(t, ts.URL+"/api/products?minPopularity=0.6&maxPrice=300", http.StatusOK)
	var got []product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 1, *env.Total)

	env = getEnvelope(t, ts.URL+"/api/products?minPrice=100000", http.StatusOK)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.Equal(t, 0, *env.Total)
}

func TestHTTP_ListProductsBadFilter(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewMemSource(sampleRecords()...), catalog.HTTPDeps{})

	env := getEnvelope(t, ts.URL+"/api/products?minPrice=cheap", http.StatusBadRequest)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid filter", env.Message)
	assert.Contains(t, env.Error, "minPrice")
}

func TestHTTP_GetProduct(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewMemSource(sampleRecords()...), catalog.HTTPDeps{})

	for _, path := range []string{"/api/products/3", "/api/products?id=3"} {
		env := getEnvelope(t, ts.URL+path, http.StatusOK)
		require.True(t, env.Success, path)
		assert.Nil(t, env.Total, path)

		var p product
		require.NoError(t, json.Unmarshal(env.Data, &p))
		assert.Equal(t, 3, p.ID, path)
		assert.Equal(t, "Engagement Ring 3", p.Name, path)
		assert.Equal(t, 353.6, p.Price, path)
		assert.Equal(t, 3.5, p.PopularityRating, path)
	}
}

func TestHTTP_GetProductNotFound(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewMemSource(sampleRecords()...), catalog.HTTPDeps{})

	for _, path := range []string{"/api/products/0", "/api/products/4", "/api/products/-1", "/api/products/abc", "/api/products?id=0", "/api/products?id=9"} {
		env := getEnvelope(t, ts.URL+path, http.StatusNotFound)
		assert.False(t, env.Success, path)
		assert.Equal(t, "Product not found", env.Message, path)
	}
}

func TestHTTP_SourceFailure(t *testing.T) {
	src := catalog.NewMemSource()
	src.Replace(nil, errors.New("open products.json: permission denied"))
	ts := newCatalogTS(t, src, catalog.HTTPDeps{})

	env := getEnvelope(t, ts.URL+"/api/products", http.StatusInternalServerError)
	assert.False(t, env.Success)
	assert.Equal(t, "Error fetching products", env.Message)
	assert.NotContains(t, env.Error, "permission denied")

	env = getEnvelope(t, ts.URL+"/api/products/1", http.StatusInternalServerError)
	assert.Equal(t, "Error fetching product", env.Message)

	resp, _ := do(t, http.MethodGet, ts.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHTTP_GoldPrice(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewMemSource(), catalog.HTTPDeps{})

	env := getEnvelope(t, ts.URL+"/api/gold-price", http.StatusOK)
	require.True(t, env.Success)

	var got struct {
		PricePerGram float64 `json:"pricePerGram"`
		Currency     string  `json:"currency"`
		Timestamp    string  `json:"timestamp"`
		Source       string  `json:"source"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 65.0, got.PricePerGram)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "2026-01-02T03:04:05.006Z", got.Timestamp)
	assert.Equal(t, "feed", got.Source)
}

func TestHTTP_Health(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewMemSource(), catalog.HTTPDeps{})

	for _, path := range []string{"/health", "/api/health"} {
		resp, raw := do(t, http.MethodGet, ts.URL+path)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"success":true,"message":"Server is running","timestamp":"2026-01-02T03:04:05.006Z","instance":"test-instance"}`, string(raw))
	}

	resp, _ := do(t, http.MethodGet, ts.URL+"/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_OptionsAndCORS(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewMemSource(sampleRecords()...), catalog.HTTPDeps{})

	for _, path := range []string{"/api/products", "/api/products/1", "/api/gold-price", "/health", "/anything"} {
		resp, _ := do(t, http.MethodOptions, ts.URL+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"), path)
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "GET", path)
	}

	resp, _ := do(t, http.MethodGet, ts.URL+"/api/products")
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHTTP_RateLimit(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewMemSource(sampleRecords()...), catalog.HTTPDeps{RateLimitPerMin: 2})

	getEnvelope(t, ts.URL+"/api/products", http.StatusOK)
	getEnvelope(t, ts.URL+"/api/gold-price", http.StatusOK)
	env := getEnvelope(t, ts.URL+"/api/products", http.StatusTooManyRequests)
	assert.False(t, env.Success)

	resp, _ := do(t, http.MethodGet, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "health is not rate limited")
}

func TestHTTP_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts := newCatalogTS(t, catalog.NewMemSource(sampleRecords()...), catalog.HTTPDeps{
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   "tok",
	})

	getEnvelope(t, ts.URL+"/api/products/2", http.StatusOK)

	resp, _ := do(t, http.MethodGet, ts.URL+"/metrics")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/metrics", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok")
	mresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer mresp.Body.Close()
	body, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, mresp.StatusCode)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/api/products/{id}",service="catalog",status="200"} 1`)
}
