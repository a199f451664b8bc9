// Package youtube proxies YouTube Data API v3 search and video statistics
// lookups. Responses are relayed unchanged: the dashboard reads the API's
// own item fields (id.videoId, snippet.title, statistics.viewCount).
package youtube

import (
	"context"
	"encoding/json"

	"github.com/howard-nolan/creatorproxy/internal/config"
	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

var errMissingKey = &upstream.InputError{Message: "YouTube API key required"}

// emptyStats is returned for a stats lookup with no ids.
var emptyStats = json.RawMessage(`{"items":[]}`)

// Client calls the Data API through an upstream.Client.
type Client struct {
	http    *upstream.Client
	baseURL string
	order   string
}

// NewClient returns a Client for the API at cfg.BaseURL.
func NewClient(hc *upstream.Client, cfg config.YouTubeConfig) *Client {
	return &Client{
		http:    hc,
		baseURL: cfg.BaseURL,
		order:   cfg.SearchOrder,
	}
}

// Search runs search.list and returns the raw response body.
func (c *Client) Search(ctx context.Context, req SearchRequest) (json.RawMessage, error) {
	req, err := req.withDefaults()
	if err != nil {
		return nil, err
	}
	return c.call(ctx, "youtube_search", buildSearch(c.baseURL, c.order, req))
}

// Statistics runs videos.list for req.IDs and returns the raw response body.
// An empty id list succeeds with no items and makes no call.
func (c *Client) Statistics(ctx context.Context, req StatsRequest) (json.RawMessage, error) {
	if req.APIKey == "" {
		return nil, errMissingKey
	}
	if len(req.IDs) == 0 {
		return emptyStats, nil
	}
	return c.call(ctx, "youtube_stats", buildStats(c.baseURL, req))
}

func (c *Client) call(ctx context.Context, name string, wire upstream.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(ctx, name, wire)
	if err != nil {
		return nil, err
	}
	return extract(resp)
}
