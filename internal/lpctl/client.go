package lpctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"lpscout/internal/models"
)

const (
	DefaultAttempts = 10
	DefaultInterval = 5 * time.Second
)

// ErrNoPools is returned when the server answers with an empty list.
var ErrNoPools = errors.New("no pools available, check server logs or wait for refresh")

// ServerError is a non-2xx answer from the pool server.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server status %d", e.Status)
	}
	return fmt.Sprintf("server status %d: %s", e.Status, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client

	// Attempts and Interval bound the startup retry loop.
	Attempts int
	Interval time.Duration
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// FetchPools reads /api/tokens, retrying on any failure within the configured attempts.
func (c *Client) FetchPools(ctx context.Context) ([]models.Pool, error) {
	attempts := c.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(attempts-1)),
		ctx,
	)

	var pools []models.Pool
	err := backoff.Retry(func() error {
		var err error
		pools, err = c.fetchOnce(ctx)
		return err
	}, policy)
	if err != nil {
		return nil, err
	}
	return pools, nil
}

func (c *Client) fetchOnce(ctx context.Context) ([]models.Pool, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return nil, backoff.Permanent(errors.New("api base url is empty"))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/tokens", nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &er)
		return nil, &ServerError{Status: resp.StatusCode, Message: er.Error}
	}

	var pools []models.Pool
	if err := json.Unmarshal(body, &pools); err != nil {
		return nil, fmt.Errorf("decode pools: %w", err)
	}
	if len(pools) == 0 {
		return nil, ErrNoPools
	}
	return pools, nil
}
