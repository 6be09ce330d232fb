// Package sessions keeps live simulation sessions in memory and journals
// every accepted command to SQLite, so a session can be rebuilt by replaying
// its journal against the same seed.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/iammorganparry/hwsim/internal/logging"
	"github.com/iammorganparry/hwsim/internal/models"
	"github.com/iammorganparry/hwsim/internal/simulation"
)

var (
	// ErrSessionNotFound is returned for an unknown session ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the live session limit is reached.
	ErrTooManySessions = errors.New("too many sessions")
)

// maxReplayEvents bounds how much journal a restore will read.
const maxReplayEvents = 100000

type entry struct {
	mu  sync.Mutex
	sim *simulation.Session
}

// Service runs commands against live sessions. Commands on one session are
// serialized; different sessions proceed independently.
type Service struct {
	mu          sync.Mutex
	live        map[string]*entry
	sessions    *SessionStore
	events      *EventStore
	scenario    simulation.Scenario
	maxSessions int
	logger      *slog.Logger
}

// NewService creates a session service. scenario is used for sessions that
// do not bring their own.
func NewService(sessions *SessionStore, events *EventStore, scenario simulation.Scenario, maxSessions int, logger *slog.Logger) *Service {
	return &Service{
		live:        make(map[string]*entry),
		sessions:    sessions,
		events:      events,
		scenario:    scenario,
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// Create starts a new uninitialized session.
func (s *Service) Create(req *models.CreateSessionRequest) (*models.SessionResponse, error) {
	scenario := s.scenario
	if req.Scenario != nil {
		scenario = *req.Scenario
	}
	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}

	sim, err := simulation.New(scenario, seed)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxSessions > 0 && len(s.live) >= s.maxSessions {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySessions, s.maxSessions)
	}

	id := uuid.New().String()
	sess, err := s.sessions.Insert(id, seed, scenario)
	if err != nil {
		return nil, err
	}
	if _, err := s.events.Insert(id, models.EventCreated, nil, sim.State()); err != nil {
		s.logger.Warn("journal event failed", "session", id, "kind", models.EventCreated, "error", err)
	}
	s.live[id] = &entry{sim: sim}

	s.logger.Info("session created", "session", id, "seed", seed)
	return &models.SessionResponse{Session: sess, Snapshot: sim.Snapshot()}, nil
}

// Get returns the stored record and current snapshot of a session.
func (s *Service) Get(id string) (*models.SessionResponse, error) {
	sess, err := s.record(id)
	if err != nil {
		return nil, err
	}
	var snap simulation.Snapshot
	err = s.view(id, func(sim *simulation.Session) {
		snap = sim.Snapshot()
	})
	if err != nil {
		return nil, err
	}
	return &models.SessionResponse{Session: sess, Snapshot: snap}, nil
}

// List returns recent session records.
func (s *Service) List(limit int) ([]*models.Session, error) {
	return s.sessions.List(limit)
}

// Delete drops a session and its journal.
func (s *Service) Delete(id string) error {
	if _, err := s.record(id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()

	if err := s.sessions.Delete(id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("session deleted", "session", id)
	return nil
}

// DefinePopulation enters the observed population.
func (s *Service) DefinePopulation(id string, req *models.PopulationRequest) (simulation.MatchResult, error) {
	res, err := s.exec(id, models.EventPopulation, req)
	if err != nil {
		return simulation.MatchResult{}, err
	}
	return res.(simulation.MatchResult), nil
}

// ProposeFrequency tries a candidate p.
func (s *Service) ProposeFrequency(id string, req *models.CandidateRequest) (simulation.MatchResult, error) {
	res, err := s.exec(id, models.EventCandidate, req)
	if err != nil {
		return simulation.MatchResult{}, err
	}
	return res.(simulation.MatchResult), nil
}

// OverwriteWithTheoretical takes the offered theoretical population.
func (s *Service) OverwriteWithTheoretical(id string) (simulation.MatchResult, error) {
	res, err := s.exec(id, models.EventOverwrite, nil)
	if err != nil {
		return simulation.MatchResult{}, err
	}
	return res.(simulation.MatchResult), nil
}

// Start creates the paired tracks.
func (s *Service) Start(id string, req *models.StartRequest) (*models.TracksResponse, error) {
	return s.tracksCommand(id, models.EventStart, req)
}

// Advance moves tracks forward.
func (s *Service) Advance(id string, req *models.AdvanceRequest) (*models.TracksResponse, error) {
	return s.tracksCommand(id, models.EventAdvance, req)
}

// BeginDriftComparison creates the drift tracks.
func (s *Service) BeginDriftComparison(id string) (*models.TracksResponse, error) {
	return s.tracksCommand(id, models.EventDrift, nil)
}

// Conclude closes the exercise.
func (s *Service) Conclude(id string) (simulation.Snapshot, error) {
	res, err := s.exec(id, models.EventConclude, nil)
	if err != nil {
		return simulation.Snapshot{}, err
	}
	return res.(simulation.Snapshot), nil
}

// Reset discards the session's tracks and entries.
func (s *Service) Reset(id string) (simulation.Snapshot, error) {
	res, err := s.exec(id, models.EventReset, nil)
	if err != nil {
		return simulation.Snapshot{}, err
	}
	return res.(simulation.Snapshot), nil
}

// Tracks returns the histories of one group, or all tracks for an empty group.
func (s *Service) Tracks(id string, group simulation.Group) (*models.TracksResponse, error) {
	resp := &models.TracksResponse{}
	err := s.view(id, func(sim *simulation.Session) {
		resp.State = sim.State()
		resp.Tracks = sim.Tracks(group)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Stats returns drift statistics for every track.
func (s *Service) Stats(id string) (*models.StatsResponse, error) {
	resp := &models.StatsResponse{}
	err := s.view(id, func(sim *simulation.Session) {
		resp.State = sim.State()
		resp.Stats = sim.Stats()
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Events returns a session's journal.
func (s *Service) Events(id string, limit int) ([]*models.Event, error) {
	if _, err := s.record(id); err != nil {
		return nil, err
	}
	return s.events.ListBySession(id, limit)
}

// Count returns the number of live sessions.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

func (s *Service) tracksCommand(id string, kind models.EventKind, payload any) (*models.TracksResponse, error) {
	res, err := s.exec(id, kind, payload)
	if err != nil {
		return nil, err
	}
	return res.(*models.TracksResponse), nil
}

// exec applies one command to a session under its lock and journals it once
// accepted. Rejected commands leave no trace.
func (s *Service) exec(id string, kind models.EventKind, payload any) (any, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if payload != nil {
		if raw, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("encode %s: %w", kind, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := apply(e.sim, kind, raw)
	if err != nil {
		s.logger.Debug("command rejected", "session", id, "kind", kind, "state", e.sim.State(), "error", err)
		return nil, err
	}

	state := e.sim.State()
	if _, err := s.events.Insert(id, kind, payload, state); err != nil {
		s.logger.Warn("journal event failed", "session", id, "kind", kind, "error", err)
	}
	if err := s.sessions.UpdateState(id, state); err != nil {
		s.logger.Warn("update session state failed", "session", id, "error", err)
	}

	s.logger.Debug("command applied", "session", id, "kind", kind, "state", state)
	if tr, ok := res.(*models.TracksResponse); ok && s.logger.Enabled(context.Background(), logging.LevelTrace) {
		for _, t := range tr.Tracks {
			s.logger.Log(context.Background(), logging.LevelTrace, "track",
				"session", id, "track", t.Name, "generation", t.Generation, "p", t.P)
		}
	}
	return res, nil
}

// view runs fn with read access to a live session.
func (s *Service) view(id string, fn func(*simulation.Session)) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.sim)
	return nil
}

// View runs fn with read access to a session. fn must not keep sim.
func (s *Service) View(id string, fn func(sim *simulation.Session)) error {
	return s.view(id, fn)
}

func (s *Service) record(id string) (*models.Session, error) {
	sess, err := s.sessions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// entry returns the live session, restoring it from the journal when only
// the stored record exists.
func (s *Service) entry(id string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.live[id]; ok {
		return e, nil
	}

	sess, err := s.record(id)
	if err != nil {
		return nil, err
	}
	if s.maxSessions > 0 && len(s.live) >= s.maxSessions {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySessions, s.maxSessions)
	}
	sim, err := s.restore(sess)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	e := &entry{sim: sim}
	s.live[id] = e
	return e, nil
}

func (s *Service) restore(sess *models.Session) (*simulation.Session, error) {
	scenario, err := s.sessions.Scenario(sess.ID)
	if err != nil {
		return nil, err
	}
	sim, err := simulation.New(scenario, sess.Seed)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListBySession(sess.ID, maxReplayEvents)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		if ev.Kind == models.EventCreated {
			continue
		}
		if _, err := apply(sim, ev.Kind, []byte(ev.Payload)); err != nil {
			return nil, fmt.Errorf("replay event %d (%s): %w", ev.Sequence, ev.Kind, err)
		}
	}
	s.logger.Info("session restored", "session", sess.ID, "events", len(events), "state", sim.State())
	return sim, nil
}

// apply decodes one command and runs it against sim.
func apply(sim *simulation.Session, kind models.EventKind, raw []byte) (any, error) {
	switch kind {
	case models.EventPopulation:
		var req models.PopulationRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		return sim.DefinePopulation(req.Dominant, req.Recessive)

	case models.EventCandidate:
		var req models.CandidateRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		if req.P == nil {
			return nil, fmt.Errorf("%w: p is required", ErrInvalidRequest)
		}
		return sim.ProposeFrequency(*req.P)

	case models.EventOverwrite:
		return sim.OverwriteWithTheoretical()

	case models.EventStart:
		var req models.StartRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		var tracks []simulation.TrackView
		var err error
		if len(req.Specs) > 0 {
			tracks, err = sim.CreatePairedTracks(req.Specs)
		} else {
			tracks, err = sim.StartSimulation(req.Multipliers...)
		}
		if err != nil {
			return nil, err
		}
		return &models.TracksResponse{State: sim.State(), Tracks: tracks}, nil

	case models.EventAdvance:
		var req models.AdvanceRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		group := req.Group
		if group == "" {
			group = simulation.GroupPaired
		}
		index := simulation.AllTracks
		if req.Track != nil {
			index = *req.Track
		}
		tracks, err := sim.Advance(group, index, req.Steps)
		if err != nil {
			return nil, err
		}
		return &models.TracksResponse{State: sim.State(), Tracks: tracks}, nil

	case models.EventDrift:
		tracks, err := sim.BeginDriftComparison()
		if err != nil {
			return nil, err
		}
		return &models.TracksResponse{State: sim.State(), Tracks: tracks}, nil

	case models.EventConclude:
		if err := sim.Conclude(); err != nil {
			return nil, err
		}
		return sim.Snapshot(), nil

	case models.EventReset:
		sim.Reset()
		return sim.Snapshot(), nil
	}
	return nil, fmt.Errorf("%w: unknown command %q", ErrInvalidRequest, kind)
}

// ErrInvalidRequest is returned for a command payload that cannot be decoded.
var ErrInvalidRequest = errors.New("invalid request")

func decode(raw []byte, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing body", ErrInvalidRequest)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
