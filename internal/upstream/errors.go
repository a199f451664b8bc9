package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoDetail matches a *StatusError whose message is the generic fallback
// rather than text the upstream supplied:
//
//	if errors.Is(err, upstream.ErrNoDetail) { ... }
var ErrNoDetail = errors.New("upstream gave no error detail")

// InputError is a caller mistake (missing credential, bad field) caught
// before any upstream call is made. Message is shown to the caller as is.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// StatusError is returned when an upstream answers with a non-2xx status.
// StatusCode is relayed to the caller unchanged.
type StatusError struct {
	Upstream   string // e.g. "groq", "youtube", "elevenlabs"
	StatusCode int
	Message    string // shown to the end user verbatim

	// Generic is true when Message is the fallback ("Groq error") because
	// the upstream body had no usable message field.
	Generic bool
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Upstream, e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNoDetail) identify fallback messages.
func (e *StatusError) Is(target error) bool {
	return target == ErrNoDetail && e.Generic
}

// ShapeError means a 2xx body decoded as JSON but lacked the field that
// carries the result.
type ShapeError struct {
	Upstream string
	Path     string // e.g. "choices[0].message.content"
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: unexpected response shape: missing %s", e.Upstream, e.Path)
}

// TransportError wraps a failure to complete the HTTP exchange at all. The
// request URL is dropped because some upstreams carry the key in it.
type TransportError struct {
	Upstream string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Upstream, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewStatusError builds a StatusError from a failed response. messageOf
// extracts the upstream's own message from the body; when it returns ""
// (or the body isn't JSON) fallback is used instead.
func NewStatusError(name string, resp *Response, messageOf func([]byte) string, fallback string) *StatusError {
	msg := messageOf(resp.Body)
	if msg == "" {
		return &StatusError{Upstream: name, StatusCode: resp.StatusCode, Message: fallback, Generic: true}
	}
	return &StatusError{Upstream: name, StatusCode: resp.StatusCode, Message: msg}
}

// ErrorMessage reads the common {"error": {"message": "..."}} failure body
// used by Google, OpenAI-compatible APIs and Anthropic. It returns "" when
// the body doesn't have that shape.
func ErrorMessage(body []byte) string {
	var eb struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &eb); err != nil || eb.Error == nil {
		return ""
	}
	return eb.Error.Message
}
