package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

// OpenAI-compatible chat completions. Groq serves the same API under its
// own base URL, so both providers share these types.

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			// Pointer so a missing content field is distinguishable from
			// an empty completion.
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// buildChat produces POST {base}/chat/completions with the system
// instruction as the first message.
func buildChat(cfg Config, req GenerationRequest) (upstream.Request, error) {
	body, err := json.Marshal(chatRequest{
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
	})
	if err != nil {
		return upstream.Request{}, fmt.Errorf("marshaling request: %w", err)
	}

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	q := url.Values{}
	cfg.authorize(h, q, req.APIKey)

	return upstream.Request{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/chat/completions", cfg.BaseURL),
		Query:  q,
		Header: h,
		Body:   body,
	}, nil
}

// extractChat reads choices[0].message.content.
func extractChat(cfg Config, resp *upstream.Response) (string, error) {
	if !resp.OK() {
		return "", upstream.NewStatusError(string(cfg.ID), resp, upstream.ErrorMessage, cfg.fallbackError())
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body, &cr); err != nil {
		return "", fmt.Errorf("decoding %s response: %w", cfg.ID, err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == nil {
		return "", &upstream.ShapeError{Upstream: string(cfg.ID), Path: "choices[0].message.content"}
	}
	return *cr.Choices[0].Message.Content, nil
}
