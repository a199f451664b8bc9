package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/howard-nolan/creatorproxy/internal/config"
	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

// fakeMP3 starts with an ID3 tag like a real ElevenLabs clip.
var fakeMP3 = []byte("ID3\x04\x00\x00\x00\x00\x00\x00\xff\xfb\x90\x64")

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(upstream.NewClient(srv.Client(), nil), config.SpeechConfig{
		BaseURL: srv.URL,
		ModelID: "eleven_monolingual_v1",
	})
	return c, &calls
}

func TestSynthesize(t *testing.T) {
	var mu sync.Mutex
	var gotPath, gotKey string
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath, gotKey = r.URL.Path, r.Header.Get("xi-api-key")
		mu.Unlock()
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(fakeMP3)
	})

	audio, err := c.Synthesize(context.Background(), Request{APIKey: "el-key", VoiceID: "voice1", Text: "Hi"})
	require.NoError(t, err)

	assert.Equal(t, "audio/mpeg", audio.ContentType)
	assert.Equal(t, fakeMP3, audio.Data)
	assert.Equal(t, int32(1), calls.Load())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/text-to-speech/voice1", gotPath)
	assert.Equal(t, "el-key", gotKey)
}

func TestSynthesize_UpstreamError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":{"status":"invalid_api_key","message":"Invalid API key"}}`)
	})

	_, err := c.Synthesize(context.Background(), Request{APIKey: "bad", VoiceID: "v", Text: "t"})

	var se *upstream.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "Invalid API key", se.Message)
	assert.False(t, errors.Is(err, upstream.ErrNoDetail))
}

func TestSynthesize_GenericError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Synthesize(context.Background(), Request{APIKey: "k", VoiceID: "v", Text: "t"})

	var se *upstream.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "ElevenLabs error", se.Message)
	assert.True(t, errors.Is(err, upstream.ErrNoDetail))
}

func TestSynthesize_RejectedBeforeCall(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(fakeMP3)
	})

	_, err := c.Synthesize(context.Background(), Request{VoiceID: "v", Text: "t"})
	assert.EqualError(t, err, "ElevenLabs API key required")

	_, err = c.Synthesize(context.Background(), Request{APIKey: "k", VoiceSettings: &VoiceSettings{Stability: 2}})
	assert.Error(t, err)

	assert.Equal(t, int32(0), calls.Load())
}
