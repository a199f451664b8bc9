package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

// anthropicAPIVersion pins the Anthropic API behavior. Anthropic requires
// this header on every request.
const anthropicAPIVersion = "2023-06-01"

// anthropicRequest is the request body for /v1/messages.
//
// Unlike the OpenAI shape, "system" is a top-level string rather than a
// message, and "max_tokens" is required.
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse carries an array of content blocks. Responses can mix
// text and tool_use blocks; we only read text.
type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func buildAnthropic(cfg Config, req GenerationRequest) (upstream.Request, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		System:    req.System,
		Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return upstream.Request{}, fmt.Errorf("marshaling request: %w", err)
	}

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("anthropic-version", anthropicAPIVersion)
	q := url.Values{}
	cfg.authorize(h, q, req.APIKey)

	return upstream.Request{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/messages", cfg.BaseURL),
		Query:  q,
		Header: h,
		Body:   body,
	}, nil
}

// extractAnthropic returns the first text block, which for a plain
// completion is content[0].
func extractAnthropic(cfg Config, resp *upstream.Response) (string, error) {
	if !resp.OK() {
		return "", upstream.NewStatusError(string(cfg.ID), resp, upstream.ErrorMessage, cfg.fallbackError())
	}

	var ar anthropicResponse
	if err := json.Unmarshal(resp.Body, &ar); err != nil {
		return "", fmt.Errorf("decoding %s response: %w", cfg.ID, err)
	}
	for _, block := range ar.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", &upstream.ShapeError{Upstream: string(cfg.ID), Path: "content[0].text"}
}
