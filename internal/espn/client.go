// Package espn adapts ESPN's fantasy football API to the projection
// pipeline.
//
// Projections come from the public kona_player_info view. The endpoint is
// unauthenticated but expects the x-fantasy-filter header the web client
// sends; without it the player list is capped at a few dozen entries.
// Rate limiting is handled via a token bucket limiter.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the fantasy football API root.
const DefaultBaseURL = "https://fantasy.espn.com/apis/v3/games/ffl"

const (
	userAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/85.0.4183.102 Safari/537.36"
	refererURL  = "https://fantasy.espn.com/football/players/projections"
	playerLimit = 1500
)

// Client fetches projection payloads from the ESPN fantasy API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	filter     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an ESPN fantasy API client with rate limiting.
func NewClient(baseURL string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		filter:     fantasyFilter(playerLimit),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// fantasyFilter builds the x-fantasy-filter header value: player limit plus
// the PPR draft-rank sort the web client asks for.
func fantasyFilter(limit int) string {
	filter := map[string]interface{}{
		"players": map[string]interface{}{
			"limit": limit,
			"sortDraftRanks": map[string]interface{}{
				"sortPriority": 100,
				"sortAsc":      true,
				"value":        "PPR",
			},
		},
	}
	b, _ := json.Marshal(filter)
	return string(b)
}

// Projections fetches the kona_player_info view for a season. The response
// carries every scoring period; the parser picks the split it needs.
func (c *Client) Projections(ctx context.Context, season int) (*projectionsResponse, error) {
	path := fmt.Sprintf("/seasons/%d/segments/0/leaguedefaults/3", season)
	params := url.Values{"view": []string{"kona_player_info"}}

	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var resp projectionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode projections: %w", err)
	}
	c.logger.Debug("Fetched ESPN projections",
		"season", season,
		"players", len(resp.Players),
		"bytes", len(body))
	return &resp, nil
}

// get performs a rate-limited GET request against the fantasy API.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", refererURL)
	req.Header.Set("x-fantasy-source", "kona")
	req.Header.Set("x-fantasy-filter", c.filter)

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
		return nil, fmt.Errorf("ESPN %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
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
