// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/plaza/models"
)

// Store persists the full player mapping as one durable snapshot. Save
// rewrites the snapshot in full; there is no incremental write path.
type Store interface {
	Load() (map[string]models.PlayerRecord, error)
	Save(players map[string]models.PlayerRecord) error
	Close() error
}

// 错误定义
var (
	ErrSnapshotNotFound = fmt.Errorf("snapshot not found")
)
