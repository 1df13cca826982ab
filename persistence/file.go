// persistence/file.go
package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/wfunc/plaza/models"
)

// FileStore keeps the snapshot as a single pretty-printed JSON document on
// local disk. Writes go through a temp file and rename so a crash mid-write
// never leaves a truncated snapshot behind.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() (map[string]models.PlayerRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}

	var players map[string]models.PlayerRecord
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (f *FileStore) Save(players map[string]models.PlayerRecord) error {
	data, err := json.MarshalIndent(players, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Close() error {
	return nil
}
