// services/snapshot_service.go
package services

import (
	"time"

	"github.com/wfunc/plaza/logger"
	"github.com/wfunc/plaza/models"
	"github.com/wfunc/plaza/monitor"
	"github.com/wfunc/plaza/persistence"
)

// SnapshotService is the gateway between the world and durable storage. It
// owns the write-error policy: a failed save is logged and dropped, never
// surfaced to clients or retried. In-memory state stays authoritative for
// the rest of the process lifetime, so a crash before the next successful
// save loses that delta.
type SnapshotService struct {
	store   persistence.Store
	monitor *monitor.Monitor
}

// NewSnapshotService wraps a store. The monitor may be nil (tests).
func NewSnapshotService(store persistence.Store, mon *monitor.Monitor) *SnapshotService {
	return &SnapshotService{store: store, monitor: mon}
}

// Load reads the persisted snapshot at startup. A missing snapshot is not an
// error; the mapping just starts empty.
func (s *SnapshotService) Load() (map[string]models.PlayerRecord, error) {
	players, err := s.store.Load()
	if err != nil {
		if err == persistence.ErrSnapshotNotFound {
			logger.Log.Info("No persisted snapshot found, starting with an empty player mapping")
			return map[string]models.PlayerRecord{}, nil
		}
		return nil, err
	}
	logger.Log.Infof("Loaded snapshot with %d player records", len(players))
	return players, nil
}

// Persist writes the full mapping through to durable storage. Errors are
// logged and swallowed.
func (s *SnapshotService) Persist(players map[string]models.PlayerRecord) {
	start := time.Now()
	err := s.store.Save(players)
	if s.monitor != nil {
		s.monitor.ObservePersistLatency(time.Since(start))
	}
	if err != nil {
		if s.monitor != nil {
			s.monitor.IncPersistFailures()
		}
		logger.Log.Errorf("Snapshot write failed, in-memory state remains authoritative: %v", err)
	}
}

func (s *SnapshotService) Close() error {
	return s.store.Close()
}
