package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/plaza/logger"
	"github.com/wfunc/plaza/models"
	"github.com/wfunc/plaza/world"
)

// Server manages the RPC listener for the admin surface.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// PlazaService exposes read-only world introspection over net/rpc, for
// operational inspection of a running server.
type PlazaService struct {
	world *world.World
}

func NewPlazaService(w *world.World) *PlazaService {
	return &PlazaService{world: w}
}

type SnapshotArgs struct{}

type SnapshotReply struct {
	Players map[string]models.PlayerRecord
}

// PlayerSnapshot returns the full player mapping.
func (ps *PlazaService) PlayerSnapshot(args *SnapshotArgs, reply *SnapshotReply) error {
	reply.Players = ps.world.PlayerSnapshot()
	return nil
}

type RoomArgs struct {
	Room string
}

type RoomReply struct {
	Members []string
}

// RoomMembers returns the member ids of one room.
func (ps *PlazaService) RoomMembers(args *RoomArgs, reply *RoomReply) error {
	reply.Members = ps.world.RoomMembers(args.Room)
	return nil
}

type RoomListArgs struct{}

type RoomListReply struct {
	Rooms []string
}

// Rooms returns every room name in the directory.
func (ps *PlazaService) Rooms(args *RoomListArgs, reply *RoomListReply) error {
	reply.Rooms = ps.world.Rooms()
	return nil
}

type ChatArgs struct{}

type ChatReply struct {
	Entries []models.ChatEntry
}

// ChatHistory returns the full chat log.
func (ps *PlazaService) ChatHistory(args *ChatArgs, reply *ChatReply) error {
	reply.Entries = ps.world.ChatHistory()
	return nil
}
