package world

import (
	"reflect"
	"testing"

	"github.com/wfunc/plaza/models"
	"github.com/wfunc/plaza/persistence"
	"github.com/wfunc/plaza/room"
	"github.com/wfunc/plaza/services"
)

// memStore is a test double for persistence.Store. It keeps the last saved
// mapping and appends to a shared op log so tests can assert that a persist
// always lands before the broadcasts of the same event.
type memStore struct {
	players map[string]models.PlayerRecord
	saves   int
	log     *[]string
}

func (m *memStore) Load() (map[string]models.PlayerRecord, error) {
	if m.players == nil {
		return nil, persistence.ErrSnapshotNotFound
	}
	return m.players, nil
}

func (m *memStore) Save(players map[string]models.PlayerRecord) error {
	copied := make(map[string]models.PlayerRecord, len(players))
	for id, record := range players {
		copied[id] = record
	}
	m.players = copied
	m.saves++
	if m.log != nil {
		*m.log = append(*m.log, "persist")
	}
	return nil
}

func (m *memStore) Close() error { return nil }

type broadcastCall struct {
	scope   string // "*" for global, otherwise the room name
	event   string
	payload interface{}
}

// recordingCaster is a test double for the Broadcaster interface.
type recordingCaster struct {
	calls []broadcastCall
	log   *[]string
}

func (c *recordingCaster) ToAll(event string, payload interface{}) {
	c.calls = append(c.calls, broadcastCall{scope: "*", event: event, payload: payload})
	if c.log != nil {
		*c.log = append(*c.log, "broadcast:"+event)
	}
}

func (c *recordingCaster) ToRoom(name, event string, payload interface{}) {
	c.calls = append(c.calls, broadcastCall{scope: name, event: event, payload: payload})
	if c.log != nil {
		*c.log = append(*c.log, "broadcast:"+event+"@"+name)
	}
}

func (c *recordingCaster) reset() {
	c.calls = nil
	if c.log != nil {
		*c.log = nil
	}
}

func newTestWorld(seed map[string]models.PlayerRecord) (*World, *room.Directory, *memStore, *recordingCaster, *[]string) {
	log := &[]string{}
	store := &memStore{log: log}
	caster := &recordingCaster{log: log}
	directory := room.NewDirectory()
	w := New(seed, directory, services.NewSnapshotService(store, nil), caster)
	return w, directory, store, caster, log
}

// checkRoomInvariant asserts that every record is in exactly one room list
// and that the list's name matches the record's room field.
func checkRoomInvariant(t *testing.T, w *World, directory *room.Directory) {
	t.Helper()
	for id, record := range w.PlayerSnapshot() {
		memberships := 0
		for _, name := range directory.Rooms() {
			if directory.Contains(name, id) {
				memberships++
				if name != record.Room {
					t.Errorf("Player %s is in room list %q but its record says %q", id, name, record.Room)
				}
			}
		}
		if memberships != 1 {
			t.Errorf("Player %s appears in %d room lists, want exactly 1", id, memberships)
		}
	}
}

func defaultRecord() models.PlayerRecord {
	return models.PlayerRecord{X: 100, Y: 100, Color: "#ffffff", Outfit: "/outfit1.svg", Room: "main"}
}

func TestConnect_DefaultCreation(t *testing.T) {
	w, directory, store, caster, _ := newTestWorld(nil)

	w.Connect("s1")

	want := map[string]models.PlayerRecord{"s1": defaultRecord()}
	if !reflect.DeepEqual(w.PlayerSnapshot(), want) {
		t.Errorf("Expected snapshot %v, got %v", want, w.PlayerSnapshot())
	}
	if !reflect.DeepEqual(w.RoomMembers("main"), []string{"s1"}) {
		t.Errorf("Expected main members [s1], got %v", w.RoomMembers("main"))
	}

	if len(caster.calls) != 2 {
		t.Fatalf("Expected 2 broadcasts on connect, got %d: %+v", len(caster.calls), caster.calls)
	}
	if caster.calls[0].event != "updatePlayers" || caster.calls[0].scope != "*" {
		t.Errorf("First broadcast should be global updatePlayers, got %+v", caster.calls[0])
	}
	if !reflect.DeepEqual(caster.calls[0].payload, want) {
		t.Errorf("updatePlayers payload = %v, want %v", caster.calls[0].payload, want)
	}
	if caster.calls[1].event != "updateRoom" || caster.calls[1].scope != "main" {
		t.Errorf("Second broadcast should be updateRoom scoped to main, got %+v", caster.calls[1])
	}
	if !reflect.DeepEqual(caster.calls[1].payload, []string{"s1"}) {
		t.Errorf("updateRoom payload = %v, want [s1]", caster.calls[1].payload)
	}

	if store.saves != 1 {
		t.Errorf("Connect should persist exactly once, got %d saves", store.saves)
	}
	checkRoomInvariant(t, w, directory)
}

func TestScenario_ConnectMoveChangeRoomDisconnect(t *testing.T) {
	w, directory, store, caster, _ := newTestWorld(nil)

	w.Connect("s1")
	caster.reset()

	w.Move("s1", 50, 60)

	snapshot := w.PlayerSnapshot()
	if snapshot["s1"].X != 50 || snapshot["s1"].Y != 60 {
		t.Errorf("Expected position (50,60), got (%v,%v)", snapshot["s1"].X, snapshot["s1"].Y)
	}
	if len(caster.calls) != 1 || caster.calls[0].event != "updatePlayers" || caster.calls[0].scope != "*" {
		t.Fatalf("Move should trigger one global updatePlayers, got %+v", caster.calls)
	}
	payload := caster.calls[0].payload.(map[string]models.PlayerRecord)
	if payload["s1"].X != 50 || payload["s1"].Y != 60 {
		t.Errorf("Broadcast payload should reflect the move, got %+v", payload["s1"])
	}

	caster.reset()
	w.ChangeRoom("s1", "lobby")

	if len(w.RoomMembers("main")) != 0 {
		t.Errorf("Expected main empty after room change, got %v", w.RoomMembers("main"))
	}
	if !reflect.DeepEqual(w.RoomMembers("lobby"), []string{"s1"}) {
		t.Errorf("Expected lobby [s1], got %v", w.RoomMembers("lobby"))
	}
	if got := w.PlayerSnapshot()["s1"].Room; got != "lobby" {
		t.Errorf("Expected record room lobby, got %q", got)
	}
	if len(caster.calls) != 2 || caster.calls[1].scope != "lobby" || caster.calls[1].event != "updateRoom" {
		t.Fatalf("ChangeRoom should broadcast updatePlayers then updateRoom@lobby, got %+v", caster.calls)
	}
	checkRoomInvariant(t, w, directory)

	w.Disconnect("s1")

	if w.PlayerCount() != 0 {
		t.Errorf("Expected empty store after disconnect, got %d records", w.PlayerCount())
	}
	if len(w.RoomMembers("lobby")) != 0 || len(w.RoomMembers("main")) != 0 {
		t.Error("Expected all room lists empty after disconnect")
	}
	// Rooms themselves survive their members.
	if !reflect.DeepEqual(w.Rooms(), []string{"lobby", "main"}) {
		t.Errorf("Expected rooms [lobby main] to still exist, got %v", w.Rooms())
	}
	if !reflect.DeepEqual(store.players, map[string]models.PlayerRecord{}) {
		t.Errorf("Expected persisted snapshot empty after disconnect, got %v", store.players)
	}
}

func TestAbsentId_NoOpNoBroadcastNoPersist(t *testing.T) {
	w, directory, store, caster, _ := newTestWorld(nil)

	w.Connect("s1")
	before := w.PlayerSnapshot()
	savesBefore := store.saves
	caster.reset()

	w.Move("ghost", 1, 2)
	w.ChangeColor("ghost", "#000000")
	w.ChangeOutfit("ghost", "/outfit9.svg")
	w.ChangeRoom("ghost", "lobby")

	if len(caster.calls) != 0 {
		t.Errorf("Absent-id events must not broadcast, got %+v", caster.calls)
	}
	if store.saves != savesBefore {
		t.Errorf("Absent-id events must not persist, saves went %d -> %d", savesBefore, store.saves)
	}
	if !reflect.DeepEqual(w.PlayerSnapshot(), before) {
		t.Error("Absent-id events must leave the store unchanged")
	}
	if len(w.ChatHistory()) != 0 {
		t.Error("Absent-id events must leave chat unchanged")
	}
	// changeRoom for a ghost must not have created the room either... it
	// must stay out of the directory entirely.
	if w.RoomCount() != 1 {
		t.Errorf("Expected only the main room, got %v", w.Rooms())
	}
	checkRoomInvariant(t, w, directory)
}

func TestChangeColorAndOutfit_AnySessionMayTargetAnyId(t *testing.T) {
	w, _, _, caster, _ := newTestWorld(nil)

	w.Connect("s1")
	w.Connect("s2")
	caster.reset()

	// s2's handler would pass s1 straight through; the world takes the
	// target id from the payload.
	w.ChangeColor("s1", "#ff0000")
	w.ChangeOutfit("s1", "/outfit2.svg")

	got := w.PlayerSnapshot()["s1"]
	if got.Color != "#ff0000" || got.Outfit != "/outfit2.svg" {
		t.Errorf("Expected s1 restyled by another session, got %+v", got)
	}
	if len(caster.calls) != 2 {
		t.Errorf("Expected one global broadcast per change, got %+v", caster.calls)
	}
}

func TestSendChat_AppendOnlyAndGlobal(t *testing.T) {
	w, _, store, caster, _ := newTestWorld(nil)

	w.Connect("s1")
	w.Connect("s2")
	caster.reset()
	savesBefore := store.saves

	w.SendChat("s1", "hello")
	w.SendChat("s2", "hi")
	w.SendChat("ghost", "still works") // sender need not be connected

	want := []models.ChatEntry{
		{PlayerID: "s1", Message: "hello"},
		{PlayerID: "s2", Message: "hi"},
		{PlayerID: "ghost", Message: "still works"},
	}
	if !reflect.DeepEqual(w.ChatHistory(), want) {
		t.Errorf("Expected chat history %v, got %v", want, w.ChatHistory())
	}

	if len(caster.calls) != 3 {
		t.Fatalf("Expected 3 chat broadcasts, got %d", len(caster.calls))
	}
	for _, call := range caster.calls {
		if call.event != "chatUpdate" || call.scope != "*" {
			t.Errorf("Chat must broadcast chatUpdate globally, got %+v", call)
		}
	}
	// The last broadcast carries the full history.
	if !reflect.DeepEqual(caster.calls[2].payload, want) {
		t.Errorf("Final chatUpdate payload = %v, want %v", caster.calls[2].payload, want)
	}

	if store.saves != savesBefore {
		t.Error("Chat is not persisted")
	}

	// History survives the sender's disconnect.
	w.Disconnect("s1")
	if !reflect.DeepEqual(w.ChatHistory(), want) {
		t.Error("Chat history must outlive its senders")
	}
}

func TestReconnect_ResetsToDefaults(t *testing.T) {
	w, directory, _, _, _ := newTestWorld(nil)

	w.Connect("s1")
	w.Move("s1", 42, 43)
	w.ChangeRoom("s1", "lobby")

	w.Connect("s1")

	got := w.PlayerSnapshot()["s1"]
	if got != defaultRecord() {
		t.Errorf("Reconnect should reset the record to defaults, got %+v", got)
	}
	if !reflect.DeepEqual(w.RoomMembers("main"), []string{"s1"}) {
		t.Errorf("Reconnect should place the player back in main, got %v", w.RoomMembers("main"))
	}
	if len(w.RoomMembers("lobby")) != 0 {
		t.Errorf("Reconnect must clear the old room membership, got %v", w.RoomMembers("lobby"))
	}
	checkRoomInvariant(t, w, directory)
}

func TestSeededWorld_DirectoryMatchesRecords(t *testing.T) {
	seed := map[string]models.PlayerRecord{
		"s1": {X: 10, Y: 20, Color: "#123456", Outfit: "/outfit2.svg", Room: "lobby"},
		"s2": {X: 30, Y: 40, Color: "#654321", Outfit: "/outfit1.svg", Room: "main"},
	}
	w, directory, _, _, _ := newTestWorld(seed)

	if !reflect.DeepEqual(w.RoomMembers("lobby"), []string{"s1"}) {
		t.Errorf("Expected seeded s1 in lobby, got %v", w.RoomMembers("lobby"))
	}
	if !reflect.DeepEqual(w.RoomMembers("main"), []string{"s2"}) {
		t.Errorf("Expected seeded s2 in main, got %v", w.RoomMembers("main"))
	}
	checkRoomInvariant(t, w, directory)
}

func TestPersistCompletesBeforeBroadcast(t *testing.T) {
	w, _, _, _, log := newTestWorld(nil)

	w.Connect("s1")
	*log = nil

	w.Move("s1", 1, 2)
	if !reflect.DeepEqual(*log, []string{"persist", "broadcast:updatePlayers"}) {
		t.Errorf("Move order = %v, want persist before broadcast", *log)
	}

	*log = nil
	w.ChangeRoom("s1", "lobby")
	want := []string{"persist", "broadcast:updatePlayers", "broadcast:updateRoom@lobby"}
	if !reflect.DeepEqual(*log, want) {
		t.Errorf("ChangeRoom order = %v, want %v", *log, want)
	}

	*log = nil
	w.Disconnect("s1")
	if !reflect.DeepEqual(*log, []string{"persist", "broadcast:updatePlayers"}) {
		t.Errorf("Disconnect order = %v, want persist before broadcast", *log)
	}
}
