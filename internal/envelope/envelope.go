// Package envelope writes the response bodies the dashboard understands:
// {"text": ...} for generations, {"error": ...} for every failure, relayed
// upstream JSON for YouTube lookups and bare audio for speech.
package envelope

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// textBody and errorBody are the only two JSON envelopes. The UI reads the
// field names directly, so they must not change.
type textBody struct {
	Text string `json:"text"`
}

type errorBody struct {
	Error string `json:"error"`
}

// JSON encodes v with the given status. Headers are set before the status
// is written; after that they are locked in.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// The status is already on the wire; all we can do is log.
		slog.Error("writing response", "error", err)
	}
}

// Text writes 200 {"text": text}.
func Text(w http.ResponseWriter, text string) {
	JSON(w, http.StatusOK, textBody{Text: text})
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// Raw relays an upstream JSON body unchanged with status 200.
func Raw(w http.ResponseWriter, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Error("writing response", "error", err)
	}
}

// Binary writes data as a 200 with the given content type and an exact
// Content-Length, so an <audio> element can play it directly.
func Binary(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("writing response", "error", err)
	}
}
