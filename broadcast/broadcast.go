// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/plaza/logger"
	"github.com/wfunc/plaza/room"
	"github.com/wfunc/plaza/session"
)

// Fanout delivers server events to connected sessions. Room-scoped sends
// resolve recipients through the room directory; global sends go to every
// live session. A failed send to one socket never blocks delivery to the
// rest.
type Fanout struct {
	directory *room.Directory
	sessions  *session.Manager
}

func NewFanout(directory *room.Directory, sessions *session.Manager) *Fanout {
	return &Fanout{
		directory: directory,
		sessions:  sessions,
	}
}

// ToAll sends the event to every connected session, regardless of room.
func (f *Fanout) ToAll(event string, payload interface{}) {
	for _, s := range f.sessions.All() {
		if err := s.Send(event, payload); err != nil {
			logger.Log.Debugf("Broadcast to session %s failed: %v", s.GetID(), err)
		}
	}
}

// ToRoom sends the event only to sessions currently in the room. An unknown
// or empty room means nobody to deliver to, which is fine.
func (f *Fanout) ToRoom(name, event string, payload interface{}) {
	for _, id := range f.directory.Members(name) {
		s, exists := f.sessions.Get(id)
		if !exists {
			continue
		}
		if err := s.Send(event, payload); err != nil {
			logger.Log.Debugf("Broadcast to session %s in room %s failed: %v", id, name, err)
		}
	}
}
