package youtube

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

const (
	// DefaultMaxResults is used when the caller doesn't pass maxResults.
	DefaultMaxResults = 12
	maxResultsLimit   = 50 // Data API v3 ceiling for search.list

	TypeVideo   = "video"
	TypeChannel = "channel"

	statsParts = "statistics,contentDetails,snippet"
)

// SearchRequest is one search.list call.
type SearchRequest struct {
	APIKey     string
	Query      string
	MaxResults int    // 0 means DefaultMaxResults
	Type       string // TypeVideo or TypeChannel; "" means TypeVideo

	// PublishedAfter is an RFC 3339 timestamp; "" sends no filter.
	PublishedAfter string
}

// StatsRequest is one videos.list call for a batch of ids.
type StatsRequest struct {
	APIKey string
	IDs    []string
}

// withDefaults fills zero fields and rejects values the API would refuse.
func (r SearchRequest) withDefaults() (SearchRequest, error) {
	if r.APIKey == "" {
		return r, errMissingKey
	}
	if r.MaxResults == 0 {
		r.MaxResults = DefaultMaxResults
	}
	if r.MaxResults < 1 || r.MaxResults > maxResultsLimit {
		return r, &upstream.InputError{Message: fmt.Sprintf("maxResults must be between 1 and %d", maxResultsLimit)}
	}
	if r.Type == "" {
		r.Type = TypeVideo
	}
	if r.Type != TypeVideo && r.Type != TypeChannel {
		return r, &upstream.InputError{Message: fmt.Sprintf("type must be %q or %q", TypeVideo, TypeChannel)}
	}
	if r.PublishedAfter != "" {
		if _, err := time.Parse(time.RFC3339, r.PublishedAfter); err != nil {
			return r, &upstream.InputError{Message: "publishedAfter must be an RFC 3339 timestamp"}
		}
	}
	return r, nil
}

// buildSearch produces GET {base}/search. r must already have defaults.
func buildSearch(baseURL, order string, r SearchRequest) upstream.Request {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", r.Query)
	q.Set("maxResults", strconv.Itoa(r.MaxResults))
	q.Set("type", r.Type)
	q.Set("key", r.APIKey)
	if order != "" {
		q.Set("order", order)
	}
	if r.PublishedAfter != "" {
		q.Set("publishedAfter", r.PublishedAfter)
	}

	return upstream.Request{
		Method: http.MethodGet,
		URL:    baseURL + "/search",
		Query:  q,
	}
}

// buildStats produces GET {base}/videos with the ids comma-joined in order.
func buildStats(baseURL string, r StatsRequest) upstream.Request {
	q := url.Values{}
	q.Set("part", statsParts)
	q.Set("id", strings.Join(r.IDs, ","))
	q.Set("key", r.APIKey)

	return upstream.Request{
		Method: http.MethodGet,
		URL:    baseURL + "/videos",
		Query:  q,
	}
}

// SplitIDs parses the comma-joined ids parameter, dropping blanks.
func SplitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
