package history

import (
	"database/sql"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"sketchforge/internal/domain"
	"sketchforge/internal/pkg/filesystem"
	"sketchforge/internal/ports"
)

// SQLiteStore persists cycle records in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the cycle database at the given path.
// An empty path defaults to ~/.sketchforge/history/cycles.db. When the
// database cannot be opened the store degrades to a jsonl file next to it.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filepath.Join(filesystem.UserHomeDir(), ".sketchforge", "history", "cycles.db")
	}
	if err := ensureDir(path); err != nil {
		return &SQLiteStore{path: path}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS cycles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		run_id TEXT,
		sketch_number INTEGER,
		category TEXT,
		model TEXT,
		line_count INTEGER,
		deployed INTEGER,
		artifact_dir TEXT
	);`)
	return err
}

// Save inserts a new cycle record.
func (s *SQLiteStore) Save(record domain.CycleRecord) error {
	if s.db == nil {
		return (&FileStore{path: fallbackPath(s.path)}).Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO cycles
		(timestamp, run_id, sketch_number, category, model, line_count, deployed, artifact_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.Format(time.RFC3339),
		record.RunID,
		record.SketchNumber,
		record.Category,
		record.Model,
		record.LineCount,
		boolToInt(record.Deployed),
		record.ArtifactDir,
	)
	return err
}

// Recent returns the most recent cycle records, newest first.
func (s *SQLiteStore) Recent(limit int) ([]domain.CycleRecord, error) {
	if s.db == nil {
		return (&FileStore{path: fallbackPath(s.path)}).Recent(limit)
	}
	query := `SELECT timestamp, run_id, sketch_number, category, model, line_count, deployed, artifact_dir
		FROM cycles ORDER BY datetime(timestamp) DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.CycleRecord
	for rows.Next() {
		var rec domain.CycleRecord
		var ts string
		var deployed int
		if err := rows.Scan(&ts, &rec.RunID, &rec.SketchNumber, &rec.Category, &rec.Model, &rec.LineCount, &deployed, &rec.ArtifactDir); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Deployed = deployed == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func fallbackPath(dbPath string) string {
	return dbPath + ".jsonl"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
