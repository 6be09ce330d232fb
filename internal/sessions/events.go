package sessions

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iammorganparry/hwsim/internal/models"
	"github.com/iammorganparry/hwsim/internal/simulation"
	"github.com/iammorganparry/hwsim/internal/store"
)

// EventStore is the append-only journal of accepted session commands.
type EventStore struct {
	db *store.DB
}

// NewEventStore creates a new event store.
func NewEventStore(db *store.DB) *EventStore {
	return &EventStore{db: db}
}

// Insert appends an event with the next sequence number. payload is stored
// as JSON; nil stores nothing.
func (s *EventStore) Insert(sessionID string, kind models.EventKind, payload any, state simulation.State) (*models.Event, error) {
	var body string
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = string(raw)
	}

	var seq int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(sequence), 0) + 1 FROM events WHERE session_id = ?`, sessionID).Scan(&seq)
	if err != nil {
		return nil, fmt.Errorf("get sequence: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().Unix()

	_, err = s.db.Exec(`
		INSERT INTO events (id, session_id, sequence, kind, payload, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, sessionID, seq, kind, body, state, now)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	return &models.Event{
		ID:        id,
		SessionID: sessionID,
		Sequence:  seq,
		Kind:      kind,
		Payload:   body,
		State:     state,
		CreatedAt: now,
	}, nil
}

// ListBySession returns a session's events ordered by sequence.
func (s *EventStore) ListBySession(sessionID string, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(`
		SELECT id, session_id, sequence, kind, payload, state, created_at
		FROM events
		WHERE session_id = ?
		ORDER BY sequence ASC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var ev models.Event
		var kind, state string
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.Sequence, &kind, &ev.Payload, &state, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = models.EventKind(kind)
		ev.State = simulation.State(state)
		events = append(events, &ev)
	}
	return events, rows.Err()
}
