package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// send wraps a payload in an envelope and writes it as one text frame.
func send(c *websocket.Conn, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(envelope{Type: event, Payload: data})
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, frame)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:3001", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			var env envelope
			if err := json.Unmarshal(message, &env); err != nil {
				log.Printf("Received invalid frame: %s", message)
				continue
			}
			log.Printf("<- RECV %s: %s", env.Type, env.Payload)
		}
	}()

	log.Println("Commands: move <x> <y> | say <message> | room <name> | color <id> <hex> | outfit <id> <path>")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}

			var err error
			switch fields[0] {
			case "move":
				if len(fields) != 3 {
					log.Println("Usage: move <x> <y>")
					continue
				}
				x, _ := strconv.ParseFloat(fields[1], 64)
				y, _ := strconv.ParseFloat(fields[2], 64)
				err = send(c, "move", map[string]float64{"x": x, "y": y})
			case "say":
				err = send(c, "sendMessage", map[string]string{"message": strings.Join(fields[1:], " ")})
			case "room":
				if len(fields) != 2 {
					log.Println("Usage: room <name>")
					continue
				}
				err = send(c, "changeRoom", map[string]string{"room": fields[1]})
			case "color":
				if len(fields) != 3 {
					log.Println("Usage: color <id> <hex>")
					continue
				}
				err = send(c, "changeColor", map[string]string{"playerId": fields[1], "color": fields[2]})
			case "outfit":
				if len(fields) != 3 {
					log.Println("Usage: outfit <id> <path>")
					continue
				}
				err = send(c, "changeOutfit", map[string]string{"playerId": fields[1], "outfit": fields[2]})
			default:
				log.Printf("Unknown command %q", fields[0])
				continue
			}

			if err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
