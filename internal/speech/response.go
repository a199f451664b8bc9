package speech

import (
	"encoding/json"

	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

// ContentType is the MIME type of every successful synthesis.
const ContentType = "audio/mpeg"

// Audio is a synthesized clip.
type Audio struct {
	ContentType string
	Data        []byte
}

// detailMessage reads ElevenLabs' {"detail": {"message": "..."}} failure
// body. Validation failures put a list under detail instead, which yields "".
func detailMessage(body []byte) string {
	var eb struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}
	var d struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(eb.Detail, &d); err != nil {
		return ""
	}
	return d.Message
}

func extract(resp *upstream.Response) (*Audio, error) {
	if !resp.OK() {
		return nil, upstream.NewStatusError("elevenlabs", resp, detailMessage, "ElevenLabs error")
	}
	return &Audio{ContentType: ContentType, Data: resp.Body}, nil
}
