// Package speech proxies ElevenLabs text-to-speech. A successful call
// returns the audio bytes exactly as ElevenLabs sent them.
package speech

import (
	"context"
	"log/slog"

	"github.com/howard-nolan/creatorproxy/internal/config"
	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

var errMissingKey = &upstream.InputError{Message: "ElevenLabs API key required"}

// Client calls ElevenLabs through an upstream.Client.
type Client struct {
	http    *upstream.Client
	baseURL string
	modelID string
}

func NewClient(hc *upstream.Client, cfg config.SpeechConfig) *Client {
	return &Client{http: hc, baseURL: cfg.BaseURL, modelID: cfg.ModelID}
}

// Synthesize converts req.Text to speech with the voice req.VoiceID.
func (c *Client) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	wire, err := build(c.baseURL, c.modelID, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, "elevenlabs", wire)
	if err != nil {
		return nil, err
	}

	audio, err := extract(resp)
	if err != nil {
		slog.Warn("speech synthesis failed", "voice", req.VoiceID, "status", resp.StatusCode, "error", err)
		return nil, err
	}
	return audio, nil
}
