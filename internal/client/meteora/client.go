package meteora

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lpscout/internal/models"
)

const (
	DefaultBaseURL = "https://dlmm-api.meteora.ag"

	pairsPath       = "/pair/all"
	maxErrorBodyLen = 512
)

type Client struct {
	host       string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("meteora API error (%d): %s", e.Status, e.Body)
}

// NewClient builds a DLMM API client. A nil limiter disables rate limiting.
func NewClient(httpClient *http.Client, host string, limiter *rate.Limiter) *Client {
	if host == "" {
		host = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		host:       strings.TrimRight(host, "/"),
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// NewLimiter returns a limiter allowing perSecond requests with a burst of one.
// perSecond <= 0 yields nil.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// ListPairs fetches every DLMM pair known to the API.
func (c *Client) ListPairs(ctx context.Context) ([]models.RawPool, error) {
	body, err := c.doRequest(ctx, pairsPath)
	if err != nil {
		return nil, err
	}
	var pools []models.RawPool
	if err := json.Unmarshal(body, &pools); err != nil {
		return nil, fmt.Errorf("decode pairs: %w", err)
	}
	return pools, nil
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(body)
		if len(msg) > maxErrorBodyLen {
			msg = msg[:maxErrorBodyLen]
		}
		return nil, &APIError{Status: resp.StatusCode, Body: msg}
	}
	return body, nil
}
