package sessions

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iammorganparry/hwsim/internal/models"
	"github.com/iammorganparry/hwsim/internal/simulation"
	"github.com/iammorganparry/hwsim/internal/store"
)

// SessionStore handles Session CRUD on SQLite.
type SessionStore struct {
	db *store.DB
}

// NewSessionStore creates a new session store.
func NewSessionStore(db *store.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Insert stores a new session record together with its scenario.
func (s *SessionStore) Insert(id string, seed uint64, scenario simulation.Scenario) (*models.Session, error) {
	raw, err := json.Marshal(scenario)
	if err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}

	now := time.Now().Unix()
	// SQLite integers are signed; the seed round-trips through int64.
	_, err = s.db.Exec(`
		INSERT INTO sessions (id, seed, scenario, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, int64(seed), string(raw), simulation.StateUninitialized, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return &models.Session{
		ID:        id,
		Seed:      seed,
		State:     simulation.StateUninitialized,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetByID fetches a session by ID. It returns nil when there is none.
func (s *SessionStore) GetByID(id string) (*models.Session, error) {
	row := s.db.QueryRow(`
		SELECT id, seed, state, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Scenario returns the scenario a session was created with.
func (s *SessionStore) Scenario(id string) (simulation.Scenario, error) {
	var raw string
	var sc simulation.Scenario
	if err := s.db.QueryRow(`SELECT scenario FROM sessions WHERE id = ?`, id).Scan(&raw); err != nil {
		return sc, fmt.Errorf("get scenario: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		return sc, fmt.Errorf("decode scenario: %w", err)
	}
	return sc, nil
}

// UpdateState records the session's current phase.
func (s *SessionStore) UpdateState(id string, state simulation.State) error {
	_, err := s.db.Exec(`UPDATE sessions SET state = ?, updated_at = ? WHERE id = ?`, state, time.Now().Unix(), id)
	return err
}

// Delete removes a session and, by cascade, its journal.
func (s *SessionStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// List returns recent sessions ordered by creation time desc.
func (s *SessionStore) List(limit int) ([]*models.Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, seed, state, created_at, updated_at
		FROM sessions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*models.Session, error) {
	var sess models.Session
	var seed int64
	var state string
	if err := row.Scan(&sess.ID, &seed, &state, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		return nil, err
	}
	sess.Seed = uint64(seed)
	sess.State = simulation.State(state)
	return &sess, nil
}
