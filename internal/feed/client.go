package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rutsinsao/smart-money-alert/internal/extract"
	"github.com/rutsinsao/smart-money-alert/internal/models"
)

// ClientConfig tunes transport behavior.
type ClientConfig struct {
	MaxRetries     int
	RetryDelayBase time.Duration
	UserAgent      string
}

// Client fetches and decodes the moneyway and dropping-odds pages.
type Client struct {
	moneywayURL    string
	droppingURL    string
	httpClient     *http.Client
	maxRetries     int
	retryDelayBase time.Duration
	userAgent      string
}

// NewClient creates a feed client for the two source pages.
func NewClient(moneywayURL, droppingURL string, timeout time.Duration, cfg ClientConfig) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelayBase <= 0 {
		cfg.RetryDelayBase = time.Second
	}
	return &Client{
		moneywayURL:    moneywayURL,
		droppingURL:    droppingURL,
		httpClient:     &http.Client{Timeout: timeout},
		maxRetries:     cfg.MaxRetries,
		retryDelayBase: cfg.RetryDelayBase,
		userAgent:      cfg.UserAgent,
	}
}

// Query carries the page parameters shared by both feeds.
type Query struct {
	TimeZone   string // "+07:00" style offset
	Day        string // Today | Tomorrow | All
	RefreshSec int
}

// FetchMoneyway retrieves and decodes the signal-percentage page. A transport
// or HTTP failure after retries is returned as an error; the caller degrades
// that feed to empty for the cycle.
func (c *Client) FetchMoneyway(ctx context.Context, q Query) ([]models.SignalEntity, error) {
	params := c.baseParams(q)
	params.Set("order", "Percentage on sign")

	html, err := c.fetch(ctx, c.moneywayURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch moneyway page: %w", err)
	}
	return DecodeSignalTable(extract.Parse(html, MinSignalColumns)), nil
}

// FetchDropping retrieves and decodes the price-movement page.
func (c *Client) FetchDropping(ctx context.Context, q Query) ([]models.PriceEntity, error) {
	params := c.baseParams(q)
	params.Set("order", "Drop")

	html, err := c.fetch(ctx, c.droppingURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dropping-odds page: %w", err)
	}
	return DecodePriceTable(extract.Parse(html, MinPriceColumns)), nil
}

func (c *Client) baseParams(q Query) url.Values {
	params := url.Values{}
	params.Set("hidden", "")
	params.Set("shown", "")
	params.Set("timeZone", q.TimeZone)
	params.Set("day", q.Day)
	params.Set("refreshInterval", strconv.Itoa(q.RefreshSec))
	params.Set("min", "0")
	params.Set("max", "100")
	return params
}

// fetch performs a GET with linear-backoff retry on transport failures and
// server errors.
func (c *Client) fetch(ctx context.Context, baseURL string, params url.Values) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}
	u.RawQuery = params.Encode()

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryDelayBase * time.Duration(i)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return "", err
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status: %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return "", lastErr
			}
			continue
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}
		return string(body), nil
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}
