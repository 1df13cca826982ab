// room/room.go
package room

import (
	"sort"
)

// MainRoom always exists. It is created at startup and never deleted, even
// when empty.
const MainRoom = "main"

// Directory partitions connection IDs into named rooms. Membership lists are
// ordered (join order) and deduped. Rooms other than "main" are created
// lazily on first reference and stay around when they empty out.
//
// The Directory carries no lock of its own: it is only ever touched under
// the world mutex, which spans every mutation through its broadcast.
type Directory struct {
	rooms map[string][]string
}

func NewDirectory() *Directory {
	d := &Directory{
		rooms: make(map[string][]string),
	}
	d.Ensure(MainRoom)
	return d
}

// Ensure creates an empty member list for name if absent. Idempotent.
func (d *Directory) Ensure(name string) {
	if _, exists := d.rooms[name]; !exists {
		d.rooms[name] = []string{}
	}
}

// Add appends id to the room, creating the room if needed. Adding an id that
// is already a member is a no-op.
func (d *Directory) Add(name, id string) {
	d.Ensure(name)
	for _, member := range d.rooms[name] {
		if member == id {
			return
		}
	}
	d.rooms[name] = append(d.rooms[name], id)
}

// Remove drops id from the room's list. Unknown room or absent id is a
// no-op. The room survives even when its list becomes empty.
func (d *Directory) Remove(name, id string) {
	members, exists := d.rooms[name]
	if !exists {
		return
	}
	for i, member := range members {
		if member == id {
			d.rooms[name] = append(members[:i], members[i+1:]...)
			return
		}
	}
}

// Move relocates id from one room to another. Not atomic for an outside
// observer, but the world mutex means no one can observe the intermediate
// state.
func (d *Directory) Move(id, from, to string) {
	d.Remove(from, id)
	d.Add(to, id)
}

// Members returns a copy of the room's member list, or an empty slice for an
// unknown room. Never fails.
func (d *Directory) Members(name string) []string {
	members := d.rooms[name]
	result := make([]string, len(members))
	copy(result, members)
	return result
}

// Contains reports whether id is a member of the room.
func (d *Directory) Contains(name, id string) bool {
	for _, member := range d.rooms[name] {
		if member == id {
			return true
		}
	}
	return false
}

// Rooms returns the sorted room names, for metrics and admin inspection.
func (d *Directory) Rooms() []string {
	names := make([]string, 0, len(d.rooms))
	for name := range d.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Directory) Count() int {
	return len(d.rooms)
}
