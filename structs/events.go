package structs

import "encoding/json"

const (
	EventActivityPanelUpdated    = "activity_panel_updated"
	EventSessionCompleted        = "session_completed"
	EventAssistanceRequestUpdate = "assistance_request_update"
)

// Event is the unit broadcast to live viewers. Payload is already JSON so
// relays can forward it without knowing its shape.
type Event struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type SessionCompletedPayload struct {
	SessionId string `json:"session_id"`
}
