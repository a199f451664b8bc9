// Package server sets up the HTTP router, middleware, and request handlers.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/howard-nolan/creatorproxy/internal/provider"
	"github.com/howard-nolan/creatorproxy/internal/speech"
	"github.com/howard-nolan/creatorproxy/internal/youtube"
)

// TextGenerator runs a text generation against the named LLM provider.
type TextGenerator interface {
	Generate(ctx context.Context, req provider.GenerationRequest) (string, error)
}

// VideoLookup queries the YouTube Data API.
type VideoLookup interface {
	Search(ctx context.Context, req youtube.SearchRequest) (json.RawMessage, error)
	Statistics(ctx context.Context, req youtube.StatsRequest) (json.RawMessage, error)
}

// SpeechSynthesizer turns text into audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error)
}

// Server holds the HTTP router and everything the handlers call.
type Server struct {
	router   chi.Router
	gen      TextGenerator
	videos   VideoLookup
	tts      SpeechSynthesizer
	gatherer prometheus.Gatherer
}

// New creates a Server with its routes and middleware wired, ready to use
// as an http.Handler. gatherer backs GET /metrics.
func New(gen TextGenerator, videos VideoLookup, tts SpeechSynthesizer, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		gen:      gen,
		videos:   videos,
		tts:      tts,
		gatherer: gatherer,
	}
	s.routes()
	return s
}

// routes builds the chi router. The /api paths are the ones the dashboard
// already calls.
func (s *Server) routes() {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/ai", s.handleGenerate)
		r.Get("/youtube", s.handleSearch)
		r.Get("/youtube-stats", s.handleStats)
		r.Post("/elevenlabs", s.handleSpeech)
	})

	s.router = r
}

// ServeHTTP delegates to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
