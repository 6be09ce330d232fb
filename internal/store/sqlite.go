package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database instead of a file.
const MemoryPath = ":memory:"

// DB wraps the SQLite connection with initialization logic.
type DB struct {
	*sql.DB
}

// Open creates or opens the SQLite database at the given path and runs schema
// initialization. MemoryPath gives each caller its own in-memory database.
func Open(dbPath string) (*DB, error) {
	dsn, err := dataSource(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite handles one writer at a time

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &DB{db}, nil
}

func dataSource(dbPath string) (string, error) {
	const opts = "_busy_timeout=5000&_foreign_keys=ON"
	if dbPath == MemoryPath {
		// Named so every pooled connection sees the same database.
		return fmt.Sprintf("file:hwsim-%s?mode=memory&cache=shared&%s", uuid.New().String(), opts), nil
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create db directory: %w", err)
	}
	return dbPath + "?_journal_mode=WAL&_synchronous=NORMAL&" + opts, nil
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  seed INTEGER NOT NULL,
  scenario TEXT NOT NULL,
  state TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);

CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  sequence INTEGER NOT NULL,
  kind TEXT NOT NULL,
  payload TEXT,
  state TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
  UNIQUE(session_id, sequence)
);

CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, sequence);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// SessionCount returns the number of stored sessions.
func (db *DB) SessionCount() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count)
	return count, err
}
