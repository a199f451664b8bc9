package youtube

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

var errInvalidJSON = errors.New("body is not valid JSON")

// extract relays a 2xx JSON body as is. Failures carry .error.message, or
// "YouTube error" when that is missing.
func extract(resp *upstream.Response) (json.RawMessage, error) {
	if !resp.OK() {
		return nil, upstream.NewStatusError("youtube", resp, upstream.ErrorMessage, "YouTube error")
	}
	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("decoding youtube response: %w", errInvalidJSON)
	}
	return json.RawMessage(resp.Body), nil
}
