// network/connection.go
package network

import (
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrMalformedFrame marks a frame that is not a valid envelope. The
// connection itself is still healthy; callers skip the frame and keep
// reading.
var ErrMalformedFrame = errors.New("malformed frame")

type Connection interface {
	SendEvent(event string, payload interface{}) error
	ReadEnvelope() (*Envelope, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

const writeTimeout = 10 * time.Second

// SendEvent marshals the payload into an envelope and writes it as one text
// frame. Writes are serialized; gorilla allows only one concurrent writer.
func (c *WSConnection) SendEvent(event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	frame, err := json.Marshal(Envelope{Type: event, Payload: data})
	if err != nil {
		return err
	}

	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// ReadEnvelope blocks for the next frame and decodes the outer envelope only.
func (c *WSConnection) ReadEnvelope() (*Envelope, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrMalformedFrame
	}
	return &env, nil
}

func (c *WSConnection) SetReadLimit(limit int64) {
	c.conn.SetReadLimit(limit)
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
