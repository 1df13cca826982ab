package main

import (
	"time"

	"github.com/wfunc/plaza/broadcast"
	"github.com/wfunc/plaza/config"
	"github.com/wfunc/plaza/logger"
	"github.com/wfunc/plaza/monitor"
	"github.com/wfunc/plaza/persistence"
	"github.com/wfunc/plaza/room"
	"github.com/wfunc/plaza/server"
	"github.com/wfunc/plaza/services"
	"github.com/wfunc/plaza/session"
	"github.com/wfunc/plaza/timer"
	"github.com/wfunc/plaza/world"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the snapshot store
	var store persistence.Store
	switch cfg.Persistence.Driver {
	case "postgres":
		store, err = persistence.NewGormPostgres(
			cfg.Persistence.Postgres.Host,
			cfg.Persistence.Postgres.Port,
			cfg.Persistence.Postgres.User,
			cfg.Persistence.Postgres.Password,
			cfg.Persistence.Postgres.DBName,
		)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to database: %v", err)
		}
		logger.Log.Info("Database connection successful.")
	default:
		store = persistence.NewFileStore(cfg.Persistence.File.Path)
		logger.Log.Infof("Using file snapshot store at %s", cfg.Persistence.File.Path)
	}

	// Metrics endpoint
	mon := monitor.NewMonitor("plaza")
	mon.StartServer(cfg.Server.MetricsAddress)

	// Seed the world from the persisted snapshot
	snapshots := services.NewSnapshotService(store, mon)
	seed, err := snapshots.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load snapshot: %v", err)
	}

	directory := room.NewDirectory()
	sessions := session.NewManager()
	caster := broadcast.NewFanout(directory, sessions)
	w := world.New(seed, directory, snapshots, caster)

	// Periodic gauge refresh and stats line
	timers := timer.NewManager()
	timers.Add("room_gauge", 10*time.Second, func() {
		mon.SetActiveRooms(w.RoomCount())
	})
	timers.Add("world_stats", time.Minute, func() {
		logger.Log.Infof("World stats: %d players online, %d rooms", w.PlayerCount(), w.RoomCount())
	})
	timers.Start()

	// Start Server
	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, cfg.Server.RPCAddress, sessions, w, mon)
	logger.Log.Infof("Starting plaza server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
