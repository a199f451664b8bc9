package upstream

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"google style", `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, "API key not valid"},
		{"anthropic style", `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, "Overloaded"},
		{"no error field", `{"detail":"nope"}`, ""},
		{"error is a string", `{"error":"boom"}`, ""},
		{"not json", `<html>Bad Gateway</html>`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage([]byte(tt.body)))
		})
	}
}

func TestNewStatusError(t *testing.T) {
	detailed := NewStatusError("groq", &Response{StatusCode: 429, Body: []byte(`{"error":{"message":"rate limited"}}`)}, ErrorMessage, "Groq error")
	assert.Equal(t, 429, detailed.StatusCode)
	assert.Equal(t, "rate limited", detailed.Message)
	assert.False(t, detailed.Generic)
	assert.False(t, errors.Is(detailed, ErrNoDetail))

	generic := NewStatusError("groq", &Response{StatusCode: 502, Body: []byte(`upstream connect error`)}, ErrorMessage, "Groq error")
	assert.Equal(t, 502, generic.StatusCode)
	assert.Equal(t, "Groq error", generic.Message)
	assert.True(t, generic.Generic)

	// Is survives wrapping.
	wrapped := fmt.Errorf("generate: %w", generic)
	assert.True(t, errors.Is(wrapped, ErrNoDetail))
	assert.Equal(t, "groq returned status 502: Groq error", generic.Error())
}

func TestShapeError(t *testing.T) {
	err := &ShapeError{Upstream: "claude", Path: "content[0].text"}
	assert.Equal(t, "claude: unexpected response shape: missing content[0].text", err.Error())
}
