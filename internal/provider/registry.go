package provider

import (
	"fmt"
	"sort"

	"github.com/howard-nolan/creatorproxy/internal/config"
	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

// defaultMaxTokens caps generated output when config doesn't say otherwise.
const defaultMaxTokens = 4000

// buildFunc translates a generic request into the provider's wire request.
// It must be pure: equal inputs give equal outputs.
type buildFunc func(cfg Config, req GenerationRequest) (upstream.Request, error)

// extractFunc turns the provider's raw response into generated text, or an
// error describing why there is none.
type extractFunc func(cfg Config, resp *upstream.Response) (string, error)

// variant is one registry entry.
type variant struct {
	cfg     Config
	build   buildFunc
	extract extractFunc
}

// builtins is the closed set of providers this server knows how to call.
func builtins() map[ID]variant {
	return map[ID]variant{
		Gemini: {
			cfg: Config{
				ID:      Gemini,
				Label:   "Gemini",
				BaseURL: "https://generativelanguage.googleapis.com/v1beta",
				Model:   "gemini-1.5-flash",
				Auth:    AuthQueryParam,
			},
			build:   buildGemini,
			extract: extractGemini,
		},
		Groq: {
			cfg: Config{
				ID:      Groq,
				Label:   "Groq",
				BaseURL: "https://api.groq.com/openai/v1",
				Model:   "llama-3.3-70b-versatile",
				Auth:    AuthBearer,
			},
			build:   buildChat,
			extract: extractChat,
		},
		OpenAI: {
			cfg: Config{
				ID:      OpenAI,
				Label:   "OpenAI",
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
				Auth:    AuthBearer,
			},
			build:   buildChat,
			extract: extractChat,
		},
		Claude: {
			cfg: Config{
				ID:      Claude,
				Label:   "Claude",
				BaseURL: "https://api.anthropic.com/v1",
				Model:   "claude-opus-4-6",
				Auth:    AuthAPIKeyHeader,
			},
			build:   buildAnthropic,
			extract: extractAnthropic,
		},
		Ollama: {
			cfg: Config{
				ID:        Ollama,
				Label:     "Ollama",
				BaseURL:   "http://localhost:11434",
				Model:     "llama3",
				Auth:      AuthNone,
				LocalOnly: true,
			},
			// Never called: LocalOnly is checked first.
			build:   buildChat,
			extract: extractChat,
		},
	}
}

// Registry maps provider ids to their variants. It is immutable after
// NewRegistry returns, so it is safe for concurrent use.
type Registry struct {
	variants map[ID]variant
}

// NewRegistry returns the built-in providers with overrides applied.
// maxTokens is the output ceiling for providers whose override doesn't set
// one; zero means 4000. An override for an unknown provider is an error,
// since it almost always means a typo in the config file.
func NewRegistry(overrides map[string]config.ProviderConfig, maxTokens int) (*Registry, error) {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	variants := builtins()
	for id, v := range variants {
		v.cfg.MaxTokens = maxTokens
		variants[id] = v
	}

	for name, o := range overrides {
		v, ok := variants[ID(name)]
		if !ok {
			return nil, fmt.Errorf("unknown provider in config: %q", name)
		}
		if o.BaseURL != "" {
			v.cfg.BaseURL = o.BaseURL
		}
		if o.Model != "" {
			v.cfg.Model = o.Model
		}
		if o.MaxTokens > 0 {
			v.cfg.MaxTokens = o.MaxTokens
		}
		variants[ID(name)] = v
	}

	return &Registry{variants: variants}, nil
}

// Resolve returns the Config for id, or *UnknownProviderError.
func (r *Registry) Resolve(id string) (Config, error) {
	v, ok := r.variants[ID(id)]
	if !ok {
		return Config{}, &UnknownProviderError{ID: id}
	}
	return v.cfg, nil
}

// Build returns the wire request req would produce, without sending it.
func (r *Registry) Build(req GenerationRequest) (upstream.Request, error) {
	v, ok := r.variants[ID(req.Provider)]
	if !ok {
		return upstream.Request{}, &UnknownProviderError{ID: req.Provider}
	}
	return v.build(v.cfg, req)
}

// IDs lists the registered providers in sorted order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.variants))
	for id := range r.variants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
