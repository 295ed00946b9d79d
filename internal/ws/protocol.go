package ws

import "encoding/json"

// Event names on the socket surface. These are wire-protocol constants;
// clients match on them verbatim.
const (
	EventAuthenticate   = "authenticate"
	EventAuthenticated  = "authenticated"
	EventAuthError      = "auth-error"
	EventPrivateMessage = "private-message"
	EventGroupMessage   = "group-message"
	EventJoinGroup      = "join-group"
)

// Envelope frames every message on the socket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// PrivateMessageRequest is the inbound private-message payload.
type PrivateMessageRequest struct {
	To      int    `json:"to" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// GroupMessageRequest is the inbound group-message payload.
type GroupMessageRequest struct {
	GroupID int    `json:"groupId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// PrivateMessageEvent is delivered to the recipient's private channel.
type PrivateMessageEvent struct {
	From    string `json:"from"`
	Message string `json:"message"`
	FromID  int    `json:"fromId"`
}

// GroupMessageEvent is delivered to a group room.
type GroupMessageEvent struct {
	From    string `json:"from"`
	Message string `json:"message"`
	FromID  int    `json:"fromId"`
	GroupID int    `json:"groupId"`
}

func encodeEvent(event string, data any) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}
	return json.Marshal(env)
}
