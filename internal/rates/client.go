package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/logging"
)

// DefaultURL serves the latest rates with USD as the base currency.
const DefaultURL = "https://open.er-api.com/v6/latest/USD"

// DefaultTTL is how long a fetched rate is reused.
const DefaultTTL = time.Hour

const cacheKey = "usd_pln"

// Options configures a Client. Zero values select defaults.
type Options struct {
	URL        string
	TTL        time.Duration
	Timeout    time.Duration
	Cache      Cache
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches the live USD->PLN rate.
type Client struct {
	url    string
	ttl    time.Duration
	cache  Cache
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a Client.
func NewClient(opts Options) *Client {
	c := &Client{
		url:    opts.URL,
		ttl:    opts.TTL,
		cache:  opts.Cache,
		http:   opts.HTTPClient,
		logger: opts.Logger,
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.cache == nil {
		c.cache = NewMemoryCache()
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c
}

// rateTable is the response body; only the PLN entry is read.
type rateTable struct {
	Rates map[string]json.RawMessage `json:"rates"`
}

// USDToPLN returns the current rate. ok is false when no valid rate could be
// obtained; the caller should keep its configured rate. Failures are logged,
// never returned.
func (c *Client) USDToPLN(ctx context.Context) (rate decimal.Decimal, ok bool) {
	if cached, hit, err := c.cache.Get(ctx, cacheKey); err != nil {
		c.logger.Warn("rate cache read failed", "error", err)
	} else if hit {
		if r, err := decimal.NewFromString(cached); err == nil && r.IsPositive() {
			return r, true
		}
	}

	r, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("fetching exchange rate failed", "url", c.url, "error", err)
		return decimal.Zero, false
	}

	if err := c.cache.Set(ctx, cacheKey, r.String(), c.ttl); err != nil {
		c.logger.Warn("rate cache write failed", "error", err)
	}
	c.logger.Debug("fetched exchange rate", "usd_pln", r.String())
	return r, true
}

func (c *Client) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("requesting rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var table rateTable
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		return decimal.Zero, fmt.Errorf("decoding rates: %w", err)
	}
	raw, found := table.Rates["PLN"]
	if !found {
		return decimal.Zero, fmt.Errorf("no PLN rate in response")
	}
	r, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("PLN rate %s is not a number", raw)
	}
	if !r.IsPositive() {
		return decimal.Zero, fmt.Errorf("PLN rate %s is not positive", r)
	}
	return r, nil
}
