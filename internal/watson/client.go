// Package watson adapts ESPN's Watson fantasy prediction service to the
// projection pipeline.
//
// Watson publishes one JSON document per player per resource, so a full
// load fans out into a request per rostered player. Responses are cached
// through the shared TTL cache to keep reruns cheap, and a token bucket
// limiter paces the fan-out.
package watson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/gridironlab/nflprojections/internal/cache"
)

// DefaultBaseURL is the Watson partner data root.
const DefaultBaseURL = "https://watsonfantasyfootball.espn.com/espnpartner/dallas"

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/94.0.4606.54 Safari/537.36"

// Client fetches Watson documents.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	cache      *cache.Cache
	logger     *slog.Logger
}

// NewClient creates a Watson client. respCache may be a disabled cache;
// every miss then goes to the network.
func NewClient(baseURL string, requestsPerMinute int, timeout time.Duration, respCache *cache.Cache, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 600
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if respCache == nil {
		respCache = cache.New(false)
	}
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		cache:      respCache,
		logger:     logger,
	}
}

// Players fetches the season roster list.
func (c *Client) Players(ctx context.Context, season int) (interface{}, error) {
	return c.getJSON(ctx, fmt.Sprintf("/players/players_ESPNFantasyFootball_%d.json", season))
}

// Player fetches the snapshot history for a single player.
func (c *Client) Player(ctx context.Context, season, playerID int) (interface{}, error) {
	return c.getJSON(ctx, fmt.Sprintf("/players/players_%d_ESPNFantasyFootball_%d.json", playerID, season))
}

// Projection fetches the projection snapshot history for a single player.
func (c *Client) Projection(ctx context.Context, season, playerID int) (interface{}, error) {
	return c.getJSON(ctx, fmt.Sprintf("/projections/projections_%d_ESPNFantasyFootball_%d.json", playerID, season))
}

// PlayerTrend fetches Watson's trend document for a single player.
func (c *Client) PlayerTrend(ctx context.Context, season, playerID int) (interface{}, error) {
	return c.getJSON(ctx, fmt.Sprintf("/playertrends/playertrends_%d_ESPNFantasyFootball_%d.json", playerID, season))
}

// Performance fetches Watson's model-performance document for a single
// player.
func (c *Client) Performance(ctx context.Context, season, playerID int) (interface{}, error) {
	return c.getJSON(ctx, fmt.Sprintf("/performance/performance_%d_ESPNFantasyFootball_%d.json", playerID, season))
}

// getJSON fetches one document through the response cache and decodes it.
// Watson document shapes vary by resource, so decoding stays generic and
// the parser sorts out structure.
func (c *Client) getJSON(ctx context.Context, path string) (interface{}, error) {
	body, fromCache, err := c.cache.Do(path, cache.TTLProviderResponse, func() ([]byte, error) {
		return c.get(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	if fromCache {
		c.logger.Debug("Watson cache hit", "path", path)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

// get performs a rate-limited GET request against the Watson service.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Watson %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
	}

	return body, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
