package provider

import (
	"context"
	"log/slog"

	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

// localOnlyReason is shown when the dashboard asks for a LocalOnly provider.
const localOnlyReason = "Ollama is local-only and cannot be used from this server."

// Generator runs one text generation: resolve, build, call, extract.
type Generator struct {
	registry      *Registry
	client        *upstream.Client
	defaultSystem string
}

// NewGenerator wires a Generator. defaultSystem fills in requests that
// carry no system instruction.
func NewGenerator(registry *Registry, client *upstream.Client, defaultSystem string) *Generator {
	return &Generator{
		registry:      registry,
		client:        client,
		defaultSystem: defaultSystem,
	}
}

// Generate returns the provider's generated text.
//
// Checks run in this order, each before any network I/O:
//  1. a LocalOnly provider  -> *UnsupportedProviderError
//  2. an empty APIKey       -> *upstream.InputError
//  3. an unknown provider   -> *UnknownProviderError
//
// After the call, a non-2xx answer is an *upstream.StatusError carrying the
// upstream status; anything else that goes wrong is returned as is.
func (g *Generator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	v, known := g.registry.variants[ID(req.Provider)]

	if known && v.cfg.LocalOnly {
		return "", &UnsupportedProviderError{ID: v.cfg.ID, Reason: localOnlyReason}
	}
	if req.APIKey == "" {
		return "", &upstream.InputError{Message: "No API key provided"}
	}
	if !known {
		return "", &UnknownProviderError{ID: req.Provider}
	}

	if req.System == "" {
		req.System = g.defaultSystem
	}

	wire, err := v.build(v.cfg, req)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(ctx, string(v.cfg.ID), wire)
	if err != nil {
		return "", err
	}

	text, err := v.extract(v.cfg, resp)
	if err != nil {
		slog.Warn("generation failed",
			"provider", v.cfg.ID,
			"status", resp.StatusCode,
			"error", err,
		)
		return "", err
	}
	return text, nil
}
