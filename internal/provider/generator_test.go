package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/dnaeon/go-vcr.v4/pkg/cassette"
	"gopkg.in/dnaeon/go-vcr.v4/pkg/recorder"

	"github.com/howard-nolan/creatorproxy/internal/config"
	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

const defaultPersona = "You are an expert YouTube content strategist."

// fakeUpstream is an httptest server that counts calls and remembers the
// last request body.
type fakeUpstream struct {
	*httptest.Server
	calls atomic.Int32

	mu       sync.Mutex
	lastBody []byte
	lastPath string
	lastKey  string
}

func (f *fakeUpstream) last() (body []byte, path, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody, f.lastPath, f.lastKey
}

func newFakeUpstream(t *testing.T, status int, body string) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		reqBody, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.lastBody, f.lastPath, f.lastKey = reqBody, r.URL.Path, r.URL.Query().Get("key")
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(f.Close)
	return f
}

// newTestGenerator points every provider at base.
func newTestGenerator(t *testing.T, base string, hc *http.Client) *Generator {
	t.Helper()
	overrides := map[string]config.ProviderConfig{}
	for _, id := range []ID{Gemini, Groq, OpenAI, Claude, Ollama} {
		overrides[string(id)] = config.ProviderConfig{BaseURL: base}
	}
	reg, err := NewRegistry(overrides, 0)
	require.NoError(t, err)
	return NewGenerator(reg, upstream.NewClient(hc, nil), defaultPersona)
}

func TestGenerate_GeminiSuccess(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"Hello"}]}}]}`)
	g := newTestGenerator(t, up.URL, up.Client())

	text, err := g.Generate(context.Background(), GenerationRequest{
		Provider: "gemini",
		APIKey:   "AIza-test",
		Prompt:   "Say hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)

	body, path, key := up.last()
	assert.Equal(t, int32(1), up.calls.Load())
	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", path)
	assert.Equal(t, "AIza-test", key)
	assert.Contains(t, string(body), defaultPersona, "empty system uses the default persona")
}

func TestGenerate_GroqRateLimited(t *testing.T) {
	up := newFakeUpstream(t, http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`)
	g := newTestGenerator(t, up.URL, up.Client())

	_, err := g.Generate(context.Background(), GenerationRequest{Provider: "groq", APIKey: "gsk", Prompt: "p"})

	var se *upstream.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, "rate limited", se.Message)
	_, path, _ := up.last()
	assert.Equal(t, "/chat/completions", path)
}

func TestGenerate_CustomSystemIsForwarded(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{"content":[{"type":"text","text":"ok"}]}`)
	g := newTestGenerator(t, up.URL, up.Client())

	_, err := g.Generate(context.Background(), GenerationRequest{
		Provider: "claude", APIKey: "sk-ant", Prompt: "p", System: "Be brief.",
	})
	require.NoError(t, err)

	raw, _, _ := up.last()
	var body anthropicRequest
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Be brief.", body.System)
}

func TestGenerate_RejectedBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name  string
		req   GenerationRequest
		check func(t *testing.T, err error)
	}{
		{
			name: "ollama with key",
			req:  GenerationRequest{Provider: "ollama", APIKey: "llama3", Prompt: "p"},
			check: func(t *testing.T, err error) {
				var unsupported *UnsupportedProviderError
				require.True(t, errors.As(err, &unsupported))
				assert.Contains(t, err.Error(), "local-only")
			},
		},
		{
			name: "ollama without key",
			req:  GenerationRequest{Provider: "ollama"},
			check: func(t *testing.T, err error) {
				var unsupported *UnsupportedProviderError
				require.True(t, errors.As(err, &unsupported))
			},
		},
		{
			name: "missing key",
			req:  GenerationRequest{Provider: "openai", Prompt: "p"},
			check: func(t *testing.T, err error) {
				var input *upstream.InputError
				require.True(t, errors.As(err, &input))
				assert.Equal(t, "No API key provided", err.Error())
			},
		},
		{
			name: "unknown provider",
			req:  GenerationRequest{Provider: "palm", APIKey: "k", Prompt: "p"},
			check: func(t *testing.T, err error) {
				var unknown *UnknownProviderError
				require.True(t, errors.As(err, &unknown))
				assert.Equal(t, "Unknown provider: palm", err.Error())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newFakeUpstream(t, http.StatusOK, `{}`)
			g := newTestGenerator(t, up.URL, up.Client())

			_, err := g.Generate(context.Background(), tt.req)
			tt.check(t, err)
			assert.Equal(t, int32(0), up.calls.Load(), "no upstream call expected")
		})
	}
}

func TestGenerate_TransportError(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{}`)
	base := up.URL
	up.Close()

	g := newTestGenerator(t, base, &http.Client{})
	_, err := g.Generate(context.Background(), GenerationRequest{Provider: "gemini", APIKey: "secret-key", Prompt: "p"})

	var te *upstream.TransportError
	require.True(t, errors.As(err, &te))
	assert.NotContains(t, err.Error(), "secret-key")
}

// TestGenerate_OpenAIRecorded replays a recorded OpenAI exchange.
func TestGenerate_OpenAIRecorded(t *testing.T) {
	rec, err := recorder.New("testdata/openai_chat",
		recorder.WithMode(recorder.ModeReplayOnly),
		recorder.WithMatcher(func(r *http.Request, i cassette.Request) bool {
			return r.Method == i.Method && r.URL.String() == i.URL
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { rec.Stop() })

	reg, err := NewRegistry(nil, 0)
	require.NoError(t, err)
	g := NewGenerator(reg, upstream.NewClient(rec.GetDefaultClient(), nil), defaultPersona)

	text, err := g.Generate(context.Background(), GenerationRequest{
		Provider: "openai",
		APIKey:   "sk-test",
		Prompt:   "Suggest one YouTube title about home espresso.",
	})
	require.NoError(t, err)
	assert.Equal(t, "I Tried Every Home Espresso Trick So You Don't Have To", text)
}
