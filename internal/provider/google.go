package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

// Gemini generateContent types. Gemini uses "parts" because it supports
// multimodal input; for text we always send a single part.

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text *string `json:"text,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// buildGemini sends the system instruction and prompt as one text block,
// separated by a blank line, since this request shape has no system role.
// The API key goes in the query string rather than a header.
func buildGemini(cfg Config, req GenerationRequest) (upstream.Request, error) {
	text := req.System + "\n\n" + req.Prompt
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: &text}}}},
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
		URL:    fmt.Sprintf("%s/models/%s:generateContent", cfg.BaseURL, cfg.Model),
		Query:  q,
		Header: h,
		Body:   body,
	}, nil
}

// extractGemini reads candidates[0].content.parts[0].text.
func extractGemini(cfg Config, resp *upstream.Response) (string, error) {
	if !resp.OK() {
		return "", upstream.NewStatusError(string(cfg.ID), resp, upstream.ErrorMessage, cfg.fallbackError())
	}

	var gr geminiResponse
	if err := json.Unmarshal(resp.Body, &gr); err != nil {
		return "", fmt.Errorf("decoding %s response: %w", cfg.ID, err)
	}
	if len(gr.Candidates) == 0 ||
		len(gr.Candidates[0].Content.Parts) == 0 ||
		gr.Candidates[0].Content.Parts[0].Text == nil {
		return "", &upstream.ShapeError{Upstream: string(cfg.ID), Path: "candidates[0].content.parts[0].text"}
	}
	return *gr.Candidates[0].Content.Parts[0].Text, nil
}
