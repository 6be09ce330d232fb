package simulation

import (
	"github.com/iammorganparry/hwsim/internal/genetics"
	"github.com/iammorganparry/hwsim/internal/population"
)

// MatchResult compares the observed population with the theoretical one for
// the current candidate frequency.
type MatchResult struct {
	State       State           `json:"state"`
	Candidate   float64         `json:"p"`
	Q           float64         `json:"q"`
	Observed    genetics.Counts `json:"observed"`
	Theoretical genetics.Counts `json:"theoretical"`
	Matched     bool            `json:"matched"`
	Attempts    int             `json:"attempts"`
	// OverwriteOffered is set once more than MaxAttempts candidates failed.
	OverwriteOffered bool `json:"overwriteOffered"`
	// Overwritten is set on the result of OverwriteWithTheoretical only.
	Overwritten bool   `json:"overwritten,omitempty"`
	Warning     string `json:"warning,omitempty"`
}

// TrackView is a read-only copy of one track.
type TrackView struct {
	Name       string              `json:"name"`
	Group      Group               `json:"group"`
	Index      int                 `json:"index"`
	Size       int                 `json:"size"`
	Generation int                 `json:"generation"`
	P          float64             `json:"p"`
	Q          float64             `json:"q"`
	History    []population.Record `json:"history,omitempty"`
}

// TrackStats pairs a track's identity with its drift statistics.
type TrackStats struct {
	Name  string `json:"name"`
	Group Group  `json:"group"`
	population.Stats
}

// Snapshot is everything a front end needs to redraw the exercise, minus
// the per-generation history.
type Snapshot struct {
	State    State       `json:"state"`
	Seed     uint64      `json:"seed"`
	Scenario Scenario    `json:"scenario"`
	Match    MatchResult `json:"match"`
	InitialP float64     `json:"initialP"`
	Paired   []TrackView `json:"paired"`
	Drift    []TrackView `json:"drift"`
	// DriftReady reports whether BeginDriftComparison would be accepted.
	DriftReady bool `json:"driftReady"`
	// ConcludeReady reports whether Conclude would be accepted.
	ConcludeReady bool `json:"concludeReady"`
}

// Snapshot returns the current state without histories.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:    s.state,
		Seed:     s.seed,
		Scenario: s.scenario.clone(),
		Match:    s.matchResult(),
		InitialP: s.initialP,
		Paired:   s.summaries(s.paired),
		Drift:    s.summaries(s.drift),
	}
	snap.DriftReady = s.state == StateSimulating && s.minGeneration(s.paired) >= s.scenario.MinGenerations
	snap.ConcludeReady = s.state == StateDriftComparisonActive && s.minGeneration(s.drift) >= 1
	return snap
}

// Tracks returns every track of group with its full history. An empty group
// returns every track, paired first.
func (s *Session) Tracks(group Group) []TrackView {
	switch group {
	case GroupPaired:
		return s.views(s.paired)
	case GroupDrift:
		return s.views(s.drift)
	default:
		return append(s.views(s.paired), s.views(s.drift)...)
	}
}

// Stats returns drift statistics for every track, paired first.
func (s *Session) Stats() []TrackStats {
	out := make([]TrackStats, 0, len(s.paired)+len(s.drift))
	for _, nt := range append(append([]namedTrack{}, s.paired...), s.drift...) {
		out = append(out, TrackStats{Name: nt.name, Group: nt.group, Stats: nt.track.Summarize()})
	}
	return out
}

func (s *Session) matchResult() MatchResult {
	res := MatchResult{
		State:            s.state,
		Candidate:        s.candidate,
		Q:                genetics.RoundHundredths(genetics.Q(s.candidate)),
		Observed:         s.observed,
		Theoretical:      genetics.TheoreticalCounts(s.candidate, s.scenario.TotalPopulation),
		Matched:          s.matched,
		Attempts:         s.attempts,
		OverwriteOffered: s.overwriteOffered(),
	}
	if s.overfull {
		res.Warning = WarnInvalidPopulationTotal
	}
	return res
}

func (s *Session) views(tracks []namedTrack) []TrackView {
	out := make([]TrackView, len(tracks))
	for i, nt := range tracks {
		out[i] = summary(nt, s.indexOf(nt))
		out[i].History = nt.track.History()
	}
	return out
}

func (s *Session) summaries(tracks []namedTrack) []TrackView {
	out := make([]TrackView, len(tracks))
	for i, nt := range tracks {
		out[i] = summary(nt, s.indexOf(nt))
	}
	return out
}

func (s *Session) indexOf(nt namedTrack) int {
	group := s.paired
	if nt.group == GroupDrift {
		group = s.drift
	}
	for i, other := range group {
		if other.track == nt.track {
			return i
		}
	}
	return -1
}

func summary(nt namedTrack, index int) TrackView {
	return TrackView{
		Name:       nt.name,
		Group:      nt.group,
		Index:      index,
		Size:       nt.track.Size(),
		Generation: nt.track.Generation(),
		P:          nt.track.P(),
		Q:          genetics.Q(nt.track.P()),
	}
}
