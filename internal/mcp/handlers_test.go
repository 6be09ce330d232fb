package mcp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/iammorganparry/hwsim/internal/api"
	"github.com/iammorganparry/hwsim/internal/logging"
	"github.com/iammorganparry/hwsim/internal/sessions"
	"github.com/iammorganparry/hwsim/internal/simulation"
	"github.com/iammorganparry/hwsim/internal/store"
)

func setupTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	db, err := store.Open(store.MemoryPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := logging.Discard()
	svc := sessions.NewService(sessions.NewSessionStore(db), sessions.NewEventStore(db), simulation.DefaultScenario(), 0, logger)
	upstream := httptest.NewServer(api.NewRouter(db, svc, 1000, apiKey, logger))
	t.Cleanup(upstream.Close)

	return NewServer(&Config{
		Name:      "hwsim-test",
		Version:   "v0.0.0",
		ServerURL: upstream.URL + "/",
		APIKey:    apiKey,
	}, logger)
}

func TestToolsDriveExercise(t *testing.T) {
	s := setupTestServer(t, "token")
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	seed := uint64(11)
	_, created, err := s.handleCreateSession(ctx, req, CreateSessionInput{Seed: &seed})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Seed != 11 || created.State != string(simulation.StateUninitialized) {
		t.Errorf("created = %+v", created)
	}
	id := created.SessionID

	_, match, err := s.handleDefinePopulation(ctx, req, PopulationInput{SessionID: id, Dominant: 1500, Recessive: 1000})
	if err != nil {
		t.Fatalf("define population: %v", err)
	}
	if match.Matched || match.Observed.Heterozygous != 2500 {
		t.Errorf("define population = %+v", match)
	}

	_, match, err = s.handleProposeFrequency(ctx, req, CandidateInput{SessionID: id, P: 0.55})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if !match.Matched || match.Q != 0.45 {
		t.Errorf("propose = %+v", match)
	}

	_, tracks, err := s.handleStart(ctx, req, StartInput{SessionID: id})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(tracks.Tracks) != 2 {
		t.Fatalf("start tracks = %+v", tracks)
	}

	_, tracks, err = s.handleAdvance(ctx, req, AdvanceInput{SessionID: id, Steps: 10})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if tracks.Tracks[1].Generation != 10 {
		t.Errorf("generation = %d, want 10", tracks.Tracks[1].Generation)
	}

	if _, _, err := s.handleBeginDrift(ctx, req, SessionInput{SessionID: id}); err != nil {
		t.Fatalf("begin drift: %v", err)
	}
	if _, _, err := s.handleAdvance(ctx, req, AdvanceInput{SessionID: id, Group: "drift", Steps: 5}); err != nil {
		t.Fatalf("advance drift: %v", err)
	}

	_, state, err := s.handleConclude(ctx, req, SessionInput{SessionID: id})
	if err != nil {
		t.Fatalf("conclude: %v", err)
	}
	if state.State != string(simulation.StateConcluded) {
		t.Errorf("state = %s, want concluded", state.State)
	}

	_, stats, err := s.handleStats(ctx, req, SessionInput{SessionID: id})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats.Stats) != 4 || stats.Stats[3].Size != 20000 {
		t.Errorf("stats = %+v", stats.Stats)
	}

	_, state, err = s.handleReset(ctx, req, SessionInput{SessionID: id})
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if state.State != string(simulation.StateUninitialized) {
		t.Errorf("after reset = %s", state.State)
	}
}

func TestToolErrorsCarryAPIStatus(t *testing.T) {
	s := setupTestServer(t, "")
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	_, _, err := s.handleOverwrite(ctx, req, SessionInput{SessionID: "missing"})
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *apiError", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apiErr.Status)
	}

	_, created, err := s.handleCreateSession(ctx, req, CreateSessionInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _, err = s.handleStart(ctx, req, StartInput{SessionID: created.SessionID})
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Errorf("start before population error = %v, want 409", err)
	}

	if _, _, err := s.handleAdvance(ctx, req, AdvanceInput{SessionID: created.SessionID}); err == nil {
		t.Error("expected error for zero steps")
	}
}

func TestUnauthorizedUpstream(t *testing.T) {
	s := setupTestServer(t, "token")
	s.apiKey = ""

	_, _, err := s.handleCreateSession(context.Background(), &sdk.CallToolRequest{}, CreateSessionInput{})
	var apiErr *apiError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Errorf("error = %v, want 401", err)
	}
}
