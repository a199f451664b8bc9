// Package provider turns a provider-agnostic text-generation request into a
// call to one LLM backend and turns the backend's answer back into text.
//
// Each backend is a variant in the Registry: a Config plus a pure build
// function (GenerationRequest -> upstream.Request) and an extract function
// (upstream.Response -> text or error). Adding a backend means adding one
// variant; nothing else branches on the provider name.
package provider

import (
	"fmt"
	"net/http"
	"net/url"
)

// ID identifies an LLM provider as the dashboard names it.
type ID string

const (
	Gemini ID = "gemini"
	Groq   ID = "groq"
	OpenAI ID = "openai"
	Claude ID = "claude"
	Ollama ID = "ollama"
)

// AuthStyle is how a provider expects the caller's API key.
type AuthStyle int

const (
	AuthNone         AuthStyle = iota
	AuthQueryParam             // ?key=<key>
	AuthBearer                 // Authorization: Bearer <key>
	AuthAPIKeyHeader           // x-api-key: <key>
)

func (a AuthStyle) String() string {
	switch a {
	case AuthQueryParam:
		return "query-param"
	case AuthBearer:
		return "bearer-header"
	case AuthAPIKeyHeader:
		return "api-key-header"
	default:
		return "none"
	}
}

// Config is how to reach one provider.
type Config struct {
	ID        ID
	Label     string // human name, e.g. "OpenAI"; used for fallback error text
	BaseURL   string
	Model     string
	MaxTokens int
	Auth      AuthStyle

	// LocalOnly providers resolve but are refused at call time: they only
	// make sense when the dashboard talks to a model on the user's machine.
	LocalOnly bool
}

// fallbackError is the message used when a failed response carries none.
func (c Config) fallbackError() string {
	return c.Label + " error"
}

// authorize attaches key to h or q according to the provider's AuthStyle.
func (c Config) authorize(h http.Header, q url.Values, key string) {
	switch c.Auth {
	case AuthQueryParam:
		q.Set("key", key)
	case AuthBearer:
		h.Set("Authorization", "Bearer "+key)
	case AuthAPIKeyHeader:
		h.Set("x-api-key", key)
	}
}

// GenerationRequest is the body of POST /api/ai. Field names match what
// the dashboard already sends.
type GenerationRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
	Prompt   string `json:"prompt"`

	// System is the system instruction. Empty means the configured
	// default persona.
	System string `json:"system"`
}

// UnknownProviderError is returned for an id that isn't in the registry.
type UnknownProviderError struct {
	ID string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("Unknown provider: %s", e.ID)
}

// UnsupportedProviderError is returned for a provider that is configured
// but deliberately refused by this server.
type UnsupportedProviderError struct {
	ID     ID
	Reason string
}

func (e *UnsupportedProviderError) Error() string {
	return e.Reason
}
