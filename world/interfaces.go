package world

// Broadcaster is the fan-out surface the world triggers after each
// mutation. Defined here so the world does not depend on the concrete
// websocket fan-out.
type Broadcaster interface {
	ToAll(event string, payload interface{})
	ToRoom(room, event string, payload interface{})
}
