package network

import "encoding/json"

// Client -> server event types.
const (
	EventMove         = "move"
	EventChangeColor  = "changeColor"
	EventChangeOutfit = "changeOutfit"
	EventSendMessage  = "sendMessage"
	EventChangeRoom   = "changeRoom"
)

// Server -> client event types.
const (
	EventUpdatePlayers = "updatePlayers"
	EventUpdateRoom    = "updateRoom"
	EventChatUpdate    = "chatUpdate"
)

// Envelope is the wire frame for inbound events. The payload stays raw until
// the dispatcher decodes it into the variant matching Type.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Typed inbound payloads, one per event variant.

type MovePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ChangeColorPayload struct {
	PlayerID string `json:"playerId"`
	Color    string `json:"color"`
}

type ChangeOutfitPayload struct {
	PlayerID string `json:"playerId"`
	Outfit   string `json:"outfit"`
}

type SendMessagePayload struct {
	Message string `json:"message"`
}

type ChangeRoomPayload struct {
	Room string `json:"room"`
}
