package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/howard-nolan/creatorproxy/internal/envelope"
	"github.com/howard-nolan/creatorproxy/internal/provider"
	"github.com/howard-nolan/creatorproxy/internal/speech"
	"github.com/howard-nolan/creatorproxy/internal/upstream"
	"github.com/howard-nolan/creatorproxy/internal/youtube"
)

// maxBodyBytes caps JSON request bodies. Prompts and narration scripts are
// far smaller.
const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	envelope.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	envelope.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// handleGenerate handles POST /api/ai.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req provider.GenerationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	text, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	envelope.Text(w, text)
}

// handleSearch handles GET /api/youtube.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := youtube.SearchRequest{
		APIKey:         q.Get("ytKey"),
		Query:          q.Get("query"),
		Type:           q.Get("type"),
		PublishedAfter: q.Get("publishedAfter"),
	}
	if raw := q.Get("maxResults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			envelope.Error(w, http.StatusBadRequest, "maxResults must be an integer")
			return
		}
		req.MaxResults = n
	}

	body, err := s.videos.Search(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	envelope.Raw(w, body)
}

// handleStats handles GET /api/youtube-stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body, err := s.videos.Statistics(r.Context(), youtube.StatsRequest{
		APIKey: q.Get("ytKey"),
		IDs:    youtube.SplitIDs(q.Get("ids")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	envelope.Raw(w, body)
}

// handleSpeech handles POST /api/elevenlabs. Success is the bare audio.
func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req speech.Request
	if !decodeBody(w, r, &req) {
		return
	}

	audio, err := s.tts.Synthesize(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	envelope.Binary(w, audio.ContentType, audio.Data)
}

// decodeBody reads a JSON body into v. On failure it writes the 400 and
// returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		envelope.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// statusFor maps an error to the status and message the dashboard sees.
func statusFor(err error) (int, string) {
	var (
		input       *upstream.InputError
		unknown     *provider.UnknownProviderError
		unsupported *provider.UnsupportedProviderError
		status      *upstream.StatusError
	)
	switch {
	case errors.As(err, &input), errors.As(err, &unknown), errors.As(err, &unsupported):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &status):
		return status.StatusCode, status.Message
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		slog.Error("request failed",
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"status", code,
			"error", err,
		)
	}
	envelope.Error(w, code, msg)
}
