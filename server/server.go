package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/plaza/logger"
	"github.com/wfunc/plaza/monitor"
	"github.com/wfunc/plaza/network"
	plaza_rpc "github.com/wfunc/plaza/rpc"
	"github.com/wfunc/plaza/session"
	"github.com/wfunc/plaza/world"
)

const maxFrameSize = 1 << 20 // 1MB

type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	world          *world.World
	monitor        *monitor.Monitor
	rpcServer      *plaza_rpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(addr, rpcAddr string, sessions *session.Manager, w *world.World, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		addr:           addr,
		sessionManager: sessions,
		world:          w,
		monitor:        mon,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化RPC服务器
	rpcServer, err := plaza_rpc.NewServer(rpcAddr)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	// 注册RPC服务
	rpc.Register(plaza_rpc.NewPlazaService(w))

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Plaza server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

// handleConnection drives one session from connect to disconnect. The
// connection id assigned here is the player identity for the whole session.
func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetReadLimit(maxFrameSize)

	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New player connected from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	s.world.Connect(sess.GetID())

	defer func() {
		logger.Log.Infof("Player disconnected, session ID: %s", sess.GetID())
		// Drop the session before the world broadcasts the removal so the
		// departing socket is not in the fan-out set.
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		s.world.Disconnect(sess.GetID())
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			env, err := wsConn.ReadEnvelope()
			if err != nil {
				if err == network.ErrMalformedFrame {
					logger.Log.Debugf("Dropping malformed frame from session %s", sess.GetID())
					continue
				}
				return
			}
			s.handleEnvelope(sess, env)
		}
	}
}

// handleEnvelope decodes the payload variant for the event type and applies
// it. Bad payloads are dropped here; the world never sees them.
func (s *GameServer) handleEnvelope(sess *session.Session, env *network.Envelope) {
	s.monitor.IncEventsReceived()

	switch env.Type {
	case network.EventMove:
		var p network.MovePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			logger.Log.Debugf("Bad move payload from session %s: %v", sess.GetID(), err)
			return
		}
		s.world.Move(sess.GetID(), p.X, p.Y)

	case network.EventChangeColor:
		var p network.ChangeColorPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			logger.Log.Debugf("Bad changeColor payload from session %s: %v", sess.GetID(), err)
			return
		}
		s.world.ChangeColor(p.PlayerID, p.Color)

	case network.EventChangeOutfit:
		var p network.ChangeOutfitPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			logger.Log.Debugf("Bad changeOutfit payload from session %s: %v", sess.GetID(), err)
			return
		}
		s.world.ChangeOutfit(p.PlayerID, p.Outfit)

	case network.EventSendMessage:
		var p network.SendMessagePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			logger.Log.Debugf("Bad sendMessage payload from session %s: %v", sess.GetID(), err)
			return
		}
		s.monitor.IncChatMessages()
		s.world.SendChat(sess.GetID(), p.Message)

	case network.EventChangeRoom:
		var p network.ChangeRoomPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			logger.Log.Debugf("Bad changeRoom payload from session %s: %v", sess.GetID(), err)
			return
		}
		s.world.ChangeRoom(sess.GetID(), p.Room)

	default:
		logger.Log.Warnf("Unknown event type %q from session %s", env.Type, sess.GetID())
	}
}
