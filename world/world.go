// world/world.go
package world

import (
	"sync"

	"github.com/wfunc/plaza/models"
	"github.com/wfunc/plaza/network"
	"github.com/wfunc/plaza/room"
	"github.com/wfunc/plaza/services"
	"github.com/wfunc/plaza/state"
)

// World owns the authoritative player state, the room directory, and the
// broadcast policy. Every operation runs under one mutex spanning mutation,
// snapshot write, and broadcast trigger, so composite updates are atomic and
// broadcasts go out in the order events were applied.
//
// Two deliberate fidelity points, kept from the original system:
//   - player-state broadcasts are global, not room-scoped, so every client
//     sees every player regardless of room;
//   - any session may target any player id in ChangeColor/ChangeOutfit.
type World struct {
	mu        sync.Mutex
	store     *state.Store
	directory *room.Directory
	snapshots *services.SnapshotService
	caster    Broadcaster
}

// New builds a world around a seeded store. Seeded records are entered into
// the directory under their persisted room so membership and the `room`
// field never disagree.
func New(seed map[string]models.PlayerRecord, directory *room.Directory, snapshots *services.SnapshotService, caster Broadcaster) *World {
	w := &World{
		store:     state.NewStore(seed),
		directory: directory,
		snapshots: snapshots,
		caster:    caster,
	}
	for id, record := range seed {
		w.directory.Add(record.Room, id)
	}
	return w
}

// Connect creates the player record for a fresh connection and places it in
// the main room. Reconnecting with an id that still has a record resets the
// record to defaults.
func (w *World) Connect(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if old, exists := w.store.Get(id); exists {
		w.directory.Remove(old.Room, id)
	}
	w.store.Create(id)
	w.directory.Add(room.MainRoom, id)

	snapshot := w.store.Snapshot()
	w.snapshots.Persist(snapshot)

	w.caster.ToAll(network.EventUpdatePlayers, snapshot)
	w.caster.ToRoom(room.MainRoom, network.EventUpdateRoom, w.directory.Members(room.MainRoom))
}

// Disconnect tears the player down: out of its room, out of the store, and a
// final global state broadcast to the sessions that remain.
func (w *World) Disconnect(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if record, exists := w.store.Get(id); exists {
		w.directory.Remove(record.Room, id)
	}
	w.store.Remove(id)

	snapshot := w.store.Snapshot()
	w.snapshots.Persist(snapshot)
	w.caster.ToAll(network.EventUpdatePlayers, snapshot)
}

// Move updates the player's position. An absent id changes nothing and
// triggers neither persistence nor broadcast.
func (w *World) Move(id string, x, y float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.store.SetPosition(id, x, y) {
		return
	}
	snapshot := w.store.Snapshot()
	w.snapshots.Persist(snapshot)
	w.caster.ToAll(network.EventUpdatePlayers, snapshot)
}

// ChangeColor recolors the targeted player. The target id comes from the
// payload, not the issuing session.
func (w *World) ChangeColor(targetID, color string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.store.SetColor(targetID, color) {
		return
	}
	snapshot := w.store.Snapshot()
	w.snapshots.Persist(snapshot)
	w.caster.ToAll(network.EventUpdatePlayers, snapshot)
}

// ChangeOutfit swaps the targeted player's outfit resource.
func (w *World) ChangeOutfit(targetID, outfit string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.store.SetOutfit(targetID, outfit) {
		return
	}
	snapshot := w.store.Snapshot()
	w.snapshots.Persist(snapshot)
	w.caster.ToAll(network.EventUpdatePlayers, snapshot)
}

// SendChat appends to the global chat log and pushes the full history to
// everyone. Chat is not persisted; it lives only as long as the process.
func (w *World) SendChat(senderID, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.store.AppendChat(models.ChatEntry{PlayerID: senderID, Message: message})
	w.caster.ToAll(network.EventChatUpdate, w.store.ChatHistory())
}

// ChangeRoom moves the player into newRoom, creating it on first reference.
// A self id whose record is already gone (a race with disconnect) is a
// no-op, not a fault.
func (w *World) ChangeRoom(id, newRoom string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	record, exists := w.store.Get(id)
	if !exists {
		return
	}

	w.directory.Move(id, record.Room, newRoom)
	w.store.SetRoom(id, newRoom)

	snapshot := w.store.Snapshot()
	w.snapshots.Persist(snapshot)

	w.caster.ToAll(network.EventUpdatePlayers, snapshot)
	w.caster.ToRoom(newRoom, network.EventUpdateRoom, w.directory.Members(newRoom))
}

// PlayerSnapshot returns a copy of the full player mapping.
func (w *World) PlayerSnapshot() map[string]models.PlayerRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Snapshot()
}

// ChatHistory returns a copy of the chat log in send order.
func (w *World) ChatHistory() []models.ChatEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.ChatHistory()
}

// RoomMembers returns the member ids of a room, empty for unknown rooms.
func (w *World) RoomMembers(name string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.directory.Members(name)
}

// Rooms returns the sorted room names.
func (w *World) Rooms() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.directory.Rooms()
}

// PlayerCount reports how many records are in the store.
func (w *World) PlayerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Count()
}

// RoomCount reports how many rooms exist in the directory.
func (w *World) RoomCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.directory.Count()
}
