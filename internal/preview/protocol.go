package preview

import "encoding/json"

// Message is the envelope for everything sent to a preview viewer.
type Message struct {
	Type     string          `json:"type"`
	SceneID  string          `json:"sceneId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

const (
	// TypeWelcome is sent once to a new viewer and carries its client id.
	TypeWelcome = "welcome"

	// TypeMarkupUpdate carries the scene's freshly emitted markup.
	TypeMarkupUpdate = "markup.update"

	// TypeViewers carries the number of viewers watching a scene.
	TypeViewers = "viewers"

	TypeError = "error"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
}

type MarkupPayload struct {
	Markup string `json:"markup"`
}

type ViewersPayload struct {
	Count int `json:"count"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(typ, sceneID string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, SceneID: sceneID, Payload: data}, nil
}
