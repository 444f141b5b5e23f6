package history

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"sketchforge/internal/domain"
	"sketchforge/internal/ports"
)

// FileStore appends cycle records to a jsonl file. It backs the SQLite
// store when the database cannot be opened.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a jsonl-backed store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save implements ports.HistoryRepository.
func (f *FileStore) Save(record domain.CycleRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ensureDir(f.path); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.FilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = file.Write(data)
	return err
}

// Recent loads the most recent cycle records, newest first (best-effort).
func (f *FileStore) Recent(limit int) ([]domain.CycleRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var records []domain.CycleRecord
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) == 0 {
			continue
		}
		var rec domain.CycleRecord
		if err := json.Unmarshal(lines[i], &rec); err == nil {
			records = append(records, rec)
		}
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

var _ ports.HistoryRepository = (*FileStore)(nil)
