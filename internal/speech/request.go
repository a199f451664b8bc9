package speech

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/howard-nolan/creatorproxy/internal/upstream"
)

// Request is one text-to-speech call as the dashboard sends it.
type Request struct {
	APIKey        string         `json:"elKey"`
	VoiceID       string         `json:"voiceId"`
	Text          string         `json:"text"`
	VoiceSettings *VoiceSettings `json:"voice_settings,omitempty"`
}

// VoiceSettings tunes the voice. Stability and SimilarityBoost are in [0,1].
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Speed           float64 `json:"speed,omitempty"`
}

// ttsRequest is the ElevenLabs request body.
type ttsRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings *VoiceSettings `json:"voice_settings,omitempty"`
}

func (r Request) validate() error {
	if r.APIKey == "" {
		return errMissingKey
	}
	if vs := r.VoiceSettings; vs != nil {
		if vs.Stability < 0 || vs.Stability > 1 {
			return &upstream.InputError{Message: "voice_settings.stability must be between 0 and 1"}
		}
		if vs.SimilarityBoost < 0 || vs.SimilarityBoost > 1 {
			return &upstream.InputError{Message: "voice_settings.similarity_boost must be between 0 and 1"}
		}
	}
	return nil
}

// build produces POST {base}/text-to-speech/{voiceId}. The key travels in
// the xi-api-key header.
func build(baseURL, modelID string, r Request) (upstream.Request, error) {
	body, err := json.Marshal(ttsRequest{
		Text:          r.Text,
		ModelID:       modelID,
		VoiceSettings: r.VoiceSettings,
	})
	if err != nil {
		return upstream.Request{}, fmt.Errorf("marshaling elevenlabs request: %w", err)
	}

	h := http.Header{}
	h.Set("xi-api-key", r.APIKey)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", ContentType)

	return upstream.Request{
		Method: http.MethodPost,
		URL:    baseURL + "/text-to-speech/" + url.PathEscape(r.VoiceID),
		Header: h,
		Body:   body,
	}, nil
}
