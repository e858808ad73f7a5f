package goldprice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultFeedURL     = "https://www.goldapi.io/api"
	DefaultFeedTimeout = 10 * time.Second

	accessTokenHeader = "x-access-token"
	maxQuoteBody      = 64 << 10
)

var (
	ErrMissingAPIKey   = errors.New("gold feed api key is not configured")
	ErrFeedUnavailable = errors.New("gold feed unavailable")
	ErrFeedBadStatus   = errors.New("gold feed bad status")
	ErrMalformedQuote  = errors.New("gold feed malformed quote")
)

// Feed returns the current price of one troy ounce.
type Feed interface {
	OuncePrice(ctx context.Context) (decimal.Decimal, error)
}

// GoldAPIClient talks to a goldapi.io compatible endpoint: GET {BaseURL}/{Metal}/{Currency}.
type GoldAPIClient struct {
	BaseURL  string
	APIKey   string
	Metal    string
	Currency string
	Client   *http.Client
}

func NewGoldAPIClient(baseURL, apiKey string, timeout time.Duration) *GoldAPIClient {
	if baseURL == "" {
		baseURL = DefaultFeedURL
	}
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = DefaultFeedTimeout
	}
	return &GoldAPIClient{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Metal:    "XAU",
		Currency: "USD",
		Client:   &http.Client{Timeout: timeout},
	}
}

type goldAPIQuote struct {
	Price     *float64 `json:"price"`
	Metal     string   `json:"metal"`
	Currency  string   `json:"currency"`
	Timestamp int64    `json:"timestamp"`
}

func (c *GoldAPIClient) OuncePrice(ctx context.Context) (decimal.Decimal, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return decimal.Zero, ErrMissingAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/%s", c.BaseURL, c.Metal, c.Currency), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	req.Header.Set(accessTokenHeader, c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, fmt.Errorf("%w: status=%d body=%q", ErrFeedBadStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var q goldAPIQuote
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxQuoteBody)).Decode(&q); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrMalformedQuote, err)
	}
	if q.Price == nil || *q.Price <= 0 {
		return decimal.Zero, fmt.Errorf("%w: missing or non-positive price", ErrMalformedQuote)
	}

	return decimal.NewFromFloat(*q.Price), nil
}
