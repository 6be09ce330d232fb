package mcp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/iammorganparry/hwsim/internal/genetics"
	"github.com/iammorganparry/hwsim/internal/models"
	"github.com/iammorganparry/hwsim/internal/simulation"
)

// registerTools registers all hwsim MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hwsim_create_session",
		Description: "Create a Hardy-Weinberg exercise session; pass a seed to make every draw reproducible",
	}, s.handleCreateSession)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hwsim_define_population",
		Description: "Enter the observed blue (RR) and green (rr) counts; magenta (Rr) is the remainder of the total",
	}, s.handleDefinePopulation)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hwsim_propose_frequency",
		Description: "Propose a frequency p of allele R and compare its Hardy-Weinberg counts with the observed population",
	}, s.handleProposeFrequency)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hwsim_overwrite",
		Description: "Replace the observed population with the theoretical one once the overwrite is offered",
	}, s.handleOverwrite)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hwsim_start",
		Description: "Start the paired simulation from the matched population",
	}, s.handleStart)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hwsim_advance",
		Description: "Advance paired or drift tracks by a number of generations",
	}, s.handleAdvance)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hwsim_begin_drift",
		Description: "Start the drift comparison between a small and a large population",
	}, s.handleBeginDrift)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hwsim_conclude",
		Description: "Conclude the exercise once every drift track has advanced",
	}, s.handleConclude)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hwsim_reset",
		Description: "Discard all tracks and entries and start the exercise over",
	}, s.handleReset)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hwsim_stats",
		Description: "Get drift statistics (mean, variance, range, fixation) for every track",
	}, s.handleStats)
}

func (s *Server) handleCreateSession(ctx context.Context, req *sdk.CallToolRequest, args CreateSessionInput) (*sdk.CallToolResult, CreateSessionOutput, error) {
	var resp models.SessionResponse
	if err := s.call(ctx, http.MethodPost, "/sessions", models.CreateSessionRequest{Seed: args.Seed}, &resp); err != nil {
		return nil, CreateSessionOutput{}, err
	}
	return nil, CreateSessionOutput{
		SessionID: resp.Session.ID,
		Seed:      resp.Session.Seed,
		State:     string(resp.Snapshot.State),
	}, nil
}

func (s *Server) handleDefinePopulation(ctx context.Context, req *sdk.CallToolRequest, args PopulationInput) (*sdk.CallToolResult, MatchOutput, error) {
	var res simulation.MatchResult
	body := models.PopulationRequest{Dominant: args.Dominant, Recessive: args.Recessive}
	if err := s.call(ctx, http.MethodPost, sessionPath(args.SessionID, "population"), body, &res); err != nil {
		return nil, MatchOutput{}, err
	}
	return nil, matchOutput(res), nil
}

func (s *Server) handleProposeFrequency(ctx context.Context, req *sdk.CallToolRequest, args CandidateInput) (*sdk.CallToolResult, MatchOutput, error) {
	var res simulation.MatchResult
	body := models.CandidateRequest{P: &args.P}
	if err := s.call(ctx, http.MethodPost, sessionPath(args.SessionID, "candidate"), body, &res); err != nil {
		return nil, MatchOutput{}, err
	}
	return nil, matchOutput(res), nil
}

func (s *Server) handleOverwrite(ctx context.Context, req *sdk.CallToolRequest, args SessionInput) (*sdk.CallToolResult, MatchOutput, error) {
	var res simulation.MatchResult
	if err := s.call(ctx, http.MethodPost, sessionPath(args.SessionID, "overwrite"), nil, &res); err != nil {
		return nil, MatchOutput{}, err
	}
	return nil, matchOutput(res), nil
}

func (s *Server) handleStart(ctx context.Context, req *sdk.CallToolRequest, args StartInput) (*sdk.CallToolResult, TracksOutput, error) {
	var resp models.TracksResponse
	body := models.StartRequest{Multipliers: args.Multipliers}
	if err := s.call(ctx, http.MethodPost, sessionPath(args.SessionID, "start"), body, &resp); err != nil {
		return nil, TracksOutput{}, err
	}
	return nil, tracksOutput(resp), nil
}

func (s *Server) handleAdvance(ctx context.Context, req *sdk.CallToolRequest, args AdvanceInput) (*sdk.CallToolResult, TracksOutput, error) {
	if args.Steps <= 0 {
		return nil, TracksOutput{}, fmt.Errorf("steps must be positive, got %d", args.Steps)
	}
	var resp models.TracksResponse
	body := models.AdvanceRequest{Group: simulation.Group(args.Group), Track: args.Track, Steps: args.Steps}
	if err := s.call(ctx, http.MethodPost, sessionPath(args.SessionID, "advance"), body, &resp); err != nil {
		return nil, TracksOutput{}, err
	}
	return nil, tracksOutput(resp), nil
}

func (s *Server) handleBeginDrift(ctx context.Context, req *sdk.CallToolRequest, args SessionInput) (*sdk.CallToolResult, TracksOutput, error) {
	var resp models.TracksResponse
	if err := s.call(ctx, http.MethodPost, sessionPath(args.SessionID, "drift"), nil, &resp); err != nil {
		return nil, TracksOutput{}, err
	}
	return nil, tracksOutput(resp), nil
}

func (s *Server) handleConclude(ctx context.Context, req *sdk.CallToolRequest, args SessionInput) (*sdk.CallToolResult, StateOutput, error) {
	var snap simulation.Snapshot
	if err := s.call(ctx, http.MethodPost, sessionPath(args.SessionID, "conclude"), nil, &snap); err != nil {
		return nil, StateOutput{}, err
	}
	return nil, stateOutput(snap), nil
}

func (s *Server) handleReset(ctx context.Context, req *sdk.CallToolRequest, args SessionInput) (*sdk.CallToolResult, StateOutput, error) {
	var snap simulation.Snapshot
	if err := s.call(ctx, http.MethodPost, sessionPath(args.SessionID, "reset"), nil, &snap); err != nil {
		return nil, StateOutput{}, err
	}
	return nil, stateOutput(snap), nil
}

func (s *Server) handleStats(ctx context.Context, req *sdk.CallToolRequest, args SessionInput) (*sdk.CallToolResult, StatsOutput, error) {
	var resp models.StatsResponse
	if err := s.call(ctx, http.MethodGet, sessionPath(args.SessionID, "stats"), nil, &resp); err != nil {
		return nil, StatsOutput{}, err
	}
	out := StatsOutput{State: string(resp.State), Stats: make([]TrackStatsSummary, 0, len(resp.Stats))}
	for _, st := range resp.Stats {
		out.Stats = append(out.Stats, TrackStatsSummary{
			Name:        st.Name,
			Group:       string(st.Group),
			Size:        st.Size,
			Generations: st.Generations,
			InitialP:    st.InitialP,
			CurrentP:    st.CurrentP,
			MeanP:       st.MeanP,
			VarianceP:   st.VarianceP,
			MinP:        st.MinP,
			MaxP:        st.MaxP,
			Fixed:       st.Fixed,
		})
	}
	return nil, out, nil
}

func sessionPath(id, action string) string {
	return "/sessions/" + url.PathEscape(id) + "/" + action
}

func counts(c genetics.Counts) Counts {
	return Counts{Dominant: c.Dominant, Heterozygous: c.Heterozygous, Recessive: c.Recessive}
}

func matchOutput(res simulation.MatchResult) MatchOutput {
	return MatchOutput{
		State:            string(res.State),
		P:                res.Candidate,
		Q:                res.Q,
		Observed:         counts(res.Observed),
		Theoretical:      counts(res.Theoretical),
		Matched:          res.Matched,
		Attempts:         res.Attempts,
		OverwriteOffered: res.OverwriteOffered,
		Warning:          res.Warning,
	}
}

func tracksOutput(resp models.TracksResponse) TracksOutput {
	out := TracksOutput{State: string(resp.State), Tracks: make([]TrackSummary, 0, len(resp.Tracks))}
	for _, t := range resp.Tracks {
		out.Tracks = append(out.Tracks, TrackSummary{
			Name:       t.Name,
			Group:      string(t.Group),
			Size:       t.Size,
			Generation: t.Generation,
			P:          t.P,
			Q:          t.Q,
		})
	}
	return out
}

func stateOutput(snap simulation.Snapshot) StateOutput {
	return StateOutput{
		State:         string(snap.State),
		DriftReady:    snap.DriftReady,
		ConcludeReady: snap.ConcludeReady,
	}
}
