// state/state.go
package state

import (
	"github.com/wfunc/plaza/models"
)

// Store is the authoritative in-process player mapping plus the global chat
// log. It owns the mutation logic but no locking: the world mutex serializes
// every access, so the maps here are plain.
type Store struct {
	players map[string]*models.PlayerRecord
	chat    []models.ChatEntry
}

// NewStore builds a store seeded from a persisted snapshot. Pass nil to
// start empty.
func NewStore(seed map[string]models.PlayerRecord) *Store {
	players := make(map[string]*models.PlayerRecord, len(seed))
	for id, record := range seed {
		r := record
		players[id] = &r
	}
	return &Store{players: players}
}

// Create inserts a record with spawn defaults under id. Re-creating an
// existing id is idempotent: the record resets to defaults.
func (s *Store) Create(id string) models.PlayerRecord {
	record := models.NewPlayerRecord()
	s.players[id] = &record
	return record
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (models.PlayerRecord, bool) {
	record, exists := s.players[id]
	if !exists {
		return models.PlayerRecord{}, false
	}
	return *record, true
}

// SetPosition moves the player. Absent id is a silent no-op; the reported
// bool tells the caller whether anything changed.
func (s *Store) SetPosition(id string, x, y float64) bool {
	record, exists := s.players[id]
	if !exists {
		return false
	}
	record.X = x
	record.Y = y
	return true
}

func (s *Store) SetColor(id, color string) bool {
	record, exists := s.players[id]
	if !exists {
		return false
	}
	record.Color = color
	return true
}

func (s *Store) SetOutfit(id, outfit string) bool {
	record, exists := s.players[id]
	if !exists {
		return false
	}
	record.Outfit = outfit
	return true
}

func (s *Store) SetRoom(id, room string) bool {
	record, exists := s.players[id]
	if !exists {
		return false
	}
	record.Room = room
	return true
}

// Remove deletes the record for id. Absent id is a no-op.
func (s *Store) Remove(id string) bool {
	if _, exists := s.players[id]; !exists {
		return false
	}
	delete(s.players, id)
	return true
}

// Snapshot returns a full copy of the player mapping, safe to hand to the
// broadcaster and the persistence gateway.
func (s *Store) Snapshot() map[string]models.PlayerRecord {
	snapshot := make(map[string]models.PlayerRecord, len(s.players))
	for id, record := range s.players {
		snapshot[id] = *record
	}
	return snapshot
}

func (s *Store) Count() int {
	return len(s.players)
}

// AppendChat adds an entry to the global chat log. Entries are immutable and
// never removed for the life of the process.
func (s *Store) AppendChat(entry models.ChatEntry) {
	s.chat = append(s.chat, entry)
}

// ChatHistory returns a copy of the full chat log in send order.
func (s *Store) ChatHistory() []models.ChatEntry {
	history := make([]models.ChatEntry, len(s.chat))
	copy(history, s.chat)
	return history
}
