package models

import (
	"github.com/iammorganparry/hwsim/internal/simulation"
)

// --- Sessions ---

// Session is the stored record of one exercise.
type Session struct {
	ID        string           `json:"id"`
	Seed      uint64           `json:"seed"`
	State     simulation.State `json:"state"`
	CreatedAt int64            `json:"createdAt"`
	UpdatedAt int64            `json:"updatedAt"`
}

// CreateSessionRequest is the payload for POST /sessions. A nil Seed picks
// a random one; Scenario overrides the server's scenario for this session.
type CreateSessionRequest struct {
	Seed     *uint64              `json:"seed,omitempty"`
	Scenario *simulation.Scenario `json:"scenario,omitempty"`
}

// SessionResponse is returned from POST /sessions and GET /sessions/{id}.
type SessionResponse struct {
	Session  *Session            `json:"session"`
	Snapshot simulation.Snapshot `json:"snapshot"`
}

// PopulationRequest is the payload for POST /sessions/{id}/population.
type PopulationRequest struct {
	Dominant  int `json:"dominant"`
	Recessive int `json:"recessive"`
}

// CandidateRequest is the payload for POST /sessions/{id}/candidate.
type CandidateRequest struct {
	P *float64 `json:"p"`
}

// StartRequest is the payload for POST /sessions/{id}/start. Specs, when
// given, seed the paired tracks directly; otherwise Multipliers scale the
// observed population (empty means the scenario's multipliers).
type StartRequest struct {
	Multipliers []int                  `json:"multipliers,omitempty"`
	Specs       []simulation.TrackSpec `json:"specs,omitempty"`
}

// AdvanceRequest is the payload for POST /sessions/{id}/advance. Group
// defaults to paired; a nil Track advances every track of the group.
type AdvanceRequest struct {
	Group simulation.Group `json:"group"`
	Track *int             `json:"track,omitempty"`
	Steps int              `json:"steps"`
}

// TracksResponse is returned by every command that creates or moves tracks.
type TracksResponse struct {
	State  simulation.State       `json:"state"`
	Tracks []simulation.TrackView `json:"tracks"`
}

// StatsResponse is returned from GET /sessions/{id}/stats.
type StatsResponse struct {
	State simulation.State        `json:"state"`
	Stats []simulation.TrackStats `json:"stats"`
}

// --- Events ---

// EventKind names a journaled session command.
type EventKind string

const (
	EventCreated    EventKind = "created"
	EventPopulation EventKind = "population_defined"
	EventCandidate  EventKind = "frequency_proposed"
	EventOverwrite  EventKind = "population_overwritten"
	EventStart      EventKind = "simulation_started"
	EventAdvance    EventKind = "advanced"
	EventDrift      EventKind = "drift_comparison_started"
	EventConclude   EventKind = "concluded"
	EventReset      EventKind = "reset"
)

// Event is one accepted command in a session's journal.
type Event struct {
	ID        string           `json:"id"`
	SessionID string           `json:"sessionId"`
	Sequence  int              `json:"sequence"`
	Kind      EventKind        `json:"kind"`
	Payload   string           `json:"payload,omitempty"`
	State     simulation.State `json:"state"`
	CreatedAt int64            `json:"createdAt"`
}

// HealthResponse is returned from GET /health.
type HealthResponse struct {
	Status       string       `json:"status"`
	DB           ServiceCheck `json:"db"`
	SessionCount int          `json:"sessionCount"`
}

type ServiceCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
