package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shelfmatch/backend/internal/domain"
)

const (
	maxAttempts = 3
	pageSize    = 200
)

// storesResponse is one page of the remote catalog API
type storesResponse struct {
	Stores     []StoreRecord `json:"stores"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// RemoteClient fetches the catalog from an HTTP catalog service
type RemoteClient struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
	debug       bool
}

// NewRemoteClient creates a catalog client allowing requestsPerMinute calls
func NewRemoteClient(apiKey, baseURL string, requestsPerMinute int, logger *zap.Logger) *RemoteClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 5)

	return &RemoteClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
		backoff:     exponentialBackoff,
		logger:      logger,
	}
}

// SetDebug enables per-request logging
func (c *RemoteClient) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying attempt: 500ms, 1s, 2s...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// ListStores pages through the remote catalog until every page is read
func (c *RemoteClient) ListStores(ctx context.Context) ([]domain.StoreCandidate, error) {
	var records []StoreRecord

	for page := 1; ; page++ {
		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		records = append(records, resp.Stores...)

		if resp.TotalPages <= page || len(resp.Stores) == 0 {
			break
		}
	}

	stores, err := MapRecords(records)
	if err != nil {
		return nil, err
	}

	c.logger.Info("fetched remote catalog", zap.String("base_url", c.baseURL), zap.Int("stores", len(stores)))
	return stores, nil
}

// fetchPage requests one page, retrying transient failures (network, 429, 5xx)
func (c *RemoteClient) fetchPage(ctx context.Context, page int) (*storesResponse, error) {
	params := url.Values{}
	params.Add("page", fmt.Sprintf("%d", page))
	params.Add("page_size", fmt.Sprintf("%d", pageSize))
	reqURL := fmt.Sprintf("%s/v1/stores?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.wait(ctx, c.backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("catalog request failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrCatalogUnavailable, readErr)
			continue
		}

		if c.debug {
			c.logger.Debug("catalog response",
				zap.Int("status", resp.StatusCode),
				zap.Int("page", page),
				zap.Int("bytes", len(body)),
			)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("%w: catalog service returned 429", domain.ErrRateLimited)
			continue
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
			continue
		default:
			return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrCatalogUnavailable, resp.StatusCode, string(body))
		}

		var out storesResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("%w: decoding page %d: %v", domain.ErrCatalogUnavailable, page, err)
		}
		return &out, nil
	}

	c.logger.Error("all catalog retries failed", zap.Int("page", page), zap.Error(lastErr))
	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *RemoteClient) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ShelfMatch/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	return resp, nil
}

func (c *RemoteClient) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
