// models/models.go
package models

// PlayerRecord is the authoritative per-connection player state. Records are
// keyed by connection ID in the world's player map and in the persisted
// snapshot.
type PlayerRecord struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
	Outfit string  `json:"outfit"`
	Room   string  `json:"room"`
}

// Player spawn defaults. Every fresh (or re-created) connection starts here.
const (
	DefaultX      = 100
	DefaultY      = 100
	DefaultColor  = "#ffffff"
	DefaultOutfit = "/outfit1.svg"
	DefaultRoom   = "main"
)

// NewPlayerRecord returns a record with spawn defaults.
func NewPlayerRecord() PlayerRecord {
	return PlayerRecord{
		X:      DefaultX,
		Y:      DefaultY,
		Color:  DefaultColor,
		Outfit: DefaultOutfit,
		Room:   DefaultRoom,
	}
}

// ChatEntry is a single chat message. The sender need not still be connected;
// history outlives its senders.
type ChatEntry struct {
	PlayerID string `json:"playerId"`
	Message  string `json:"message"`
}
