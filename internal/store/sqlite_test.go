package store

import (
	"path/filepath"
	"testing"
)

func TestOpenMemoryIsPrivate(t *testing.T) {
	a, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()
	b, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	if _, err := a.Exec(`INSERT INTO sessions (id, seed, scenario, state, created_at, updated_at)
		VALUES ('s1', 1, '{}', 'uninitialized', 0, 0)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if n, err := a.SessionCount(); err != nil || n != 1 {
		t.Errorf("a.SessionCount() = %d, %v; want 1", n, err)
	}
	if n, err := b.SessionCount(); err != nil || n != 0 {
		t.Errorf("b.SessionCount() = %d, %v; want 0", n, err)
	}
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hwsim.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if n, err := db.SessionCount(); err != nil || n != 0 {
		t.Errorf("SessionCount() = %d, %v; want 0", n, err)
	}

	// Reopening runs the schema again without error.
	again, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	again.Close()
}

func TestEventsCascadeOnSessionDelete(t *testing.T) {
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`INSERT INTO sessions (id, seed, scenario, state, created_at, updated_at) VALUES ('s1', 1, '{}', 'uninitialized', 0, 0)`,
		`INSERT INTO events (id, session_id, sequence, kind, state, created_at) VALUES ('e1', 's1', 1, 'created', 'uninitialized', 0)`,
		`DELETE FROM sessions WHERE id = 's1'`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("events after cascade = %d, want 0", n)
	}
}
