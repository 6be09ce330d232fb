// Package simulation runs one Hardy-Weinberg exercise: entering an observed
// population, searching for the allele frequency that explains it, then
// breeding paired and drift-comparison populations generation by generation.
//
// A Session is driven by discrete commands; each command is accepted only in
// the states listed on it and moves the session along
//
//	uninitialized → population_defined → theoretical_match_found →
//	simulating → drift_comparison_active → concluded
//
// Reset returns any state to uninitialized. A Session is not safe for
// concurrent use.
package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/iammorganparry/hwsim/internal/genetics"
	"github.com/iammorganparry/hwsim/internal/population"
)

// TrackSpec is one entry of a paired-track request.
type TrackSpec struct {
	Size int             `json:"size"`
	Seed genetics.Counts `json:"seed"`
}

type namedTrack struct {
	name  string
	group Group
	track *population.Track
}

// Session is a single exercise and exclusively owns its tracks.
type Session struct {
	scenario Scenario
	seed     uint64
	// epoch counts resets; together with ordinal it picks each track's stream.
	epoch   uint64
	ordinal uint64

	state     State
	observed  genetics.Counts
	overfull  bool
	candidate float64
	lastSeen  float64
	attempts  int
	matched   bool
	initialP  float64
	paired    []namedTrack
	drift     []namedTrack
}

// New creates an uninitialized session. Every random draw the session makes
// derives from seed, so replaying the same commands with the same seed
// reproduces every history. A default population entry that does not fit
// the scenario's population is emptied.
func New(scenario Scenario, seed uint64) (*Session, error) {
	scenario = scenario.FitDefaultPopulation().clone()
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	s := &Session{scenario: scenario, seed: seed}
	s.clear()
	return s, nil
}

func (s *Session) clear() {
	s.state = StateUninitialized
	s.observed = genetics.Counts{}
	s.overfull = false
	s.candidate = s.scenario.InitialCandidate
	s.lastSeen = s.scenario.InitialCandidate
	s.attempts = 0
	s.matched = false
	s.initialP = 0
	s.paired = nil
	s.drift = nil
	s.ordinal = 0
}

// Scenario returns the exercise parameters.
func (s *Session) Scenario() Scenario { return s.scenario.clone() }

// Seed returns the seed all track streams derive from.
func (s *Session) Seed() uint64 { return s.seed }

// State returns the current phase.
func (s *Session) State() State { return s.state }

// DefinePopulation records the observed blue (RR) and green (rr) counts; the
// magenta (Rr) count is whatever remains of the total. An entry that
// overflows the total is kept with Rr clamped to 0 and a warning, and
// cannot match until corrected.
func (s *Session) DefinePopulation(dominant, recessive int) (MatchResult, error) {
	if err := s.require("define population", StateUninitialized, StatePopulationDefined, StateTheoreticalMatchFound); err != nil {
		return MatchResult{}, err
	}
	total := s.scenario.TotalPopulation
	dominant = clampInt(dominant, 0, total)
	recessive = clampInt(recessive, 0, total)

	het := total - (dominant + recessive)
	s.overfull = het < 0
	if s.overfull {
		het = 0
	}
	s.observed = genetics.Counts{Dominant: dominant, Heterozygous: het, Recessive: recessive}
	s.evaluate()
	return s.matchResult(), nil
}

// ProposeFrequency tries candidate p against the observed population. p is
// clamped to [0,1] and snapped to hundredths; each change of p counts as
// one attempt.
func (s *Session) ProposeFrequency(p float64) (MatchResult, error) {
	if err := s.require("propose frequency", StatePopulationDefined, StateTheoreticalMatchFound); err != nil {
		return MatchResult{}, err
	}
	p = genetics.RoundHundredths(genetics.Clamp(p))
	if p != s.lastSeen {
		s.attempts++
		s.lastSeen = p
	}
	s.candidate = p
	s.evaluate()
	return s.matchResult(), nil
}

// OverwriteWithTheoretical replaces the observed population with the
// theoretical one for the current candidate. It is only available once more
// than MaxAttempts candidates have failed, and resets the attempt counter.
func (s *Session) OverwriteWithTheoretical() (MatchResult, error) {
	if err := s.require("overwrite population", StatePopulationDefined); err != nil {
		return MatchResult{}, err
	}
	if !s.overwriteOffered() {
		return MatchResult{}, fmt.Errorf("%w: overwrite offered after %d failed attempts, have %d",
			ErrNotReady, s.scenario.MaxAttempts, s.attempts)
	}
	total := s.scenario.TotalPopulation
	theo := genetics.TheoreticalCounts(s.candidate, total)
	s.observed = genetics.Counts{
		Dominant:     theo.Dominant,
		Heterozygous: total - theo.Dominant - theo.Recessive,
		Recessive:    theo.Recessive,
	}
	s.overfull = false
	s.attempts = 0
	s.evaluate()
	res := s.matchResult()
	res.Overwritten = true
	return res, nil
}

// StartSimulation seeds one paired track per multiplier, each the observed
// population scaled by that multiplier. With no multipliers the scenario's
// PairedMultipliers are used.
func (s *Session) StartSimulation(multipliers ...int) ([]TrackView, error) {
	if len(multipliers) == 0 {
		multipliers = s.scenario.PairedMultipliers
	}
	specs := make([]TrackSpec, 0, len(multipliers))
	for _, m := range multipliers {
		if m < 1 {
			return nil, fmt.Errorf("multiplier %d: %w", m, genetics.ErrInvalidPopulationSize)
		}
		specs = append(specs, TrackSpec{
			Size: s.scenario.TotalPopulation * m,
			Seed: s.observed.Scale(m),
		})
	}
	return s.CreatePairedTracks(specs)
}

// CreatePairedTracks builds one independent track per spec. Every seed must
// partition its size and carry the same allele frequency, so the tracks
// differ only in population size.
func (s *Session) CreatePairedTracks(specs []TrackSpec) ([]TrackView, error) {
	if err := s.require("start simulation", StateTheoreticalMatchFound); err != nil {
		return nil, err
	}
	if s.observed.Total() != s.scenario.TotalPopulation {
		return nil, fmt.Errorf("observed %v: %w", s.observed, ErrInvalidPopulationTotal)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no paired tracks requested", ErrUnknownTrack)
	}

	tracks := make([]namedTrack, 0, len(specs))
	ordinal := s.ordinal
	var p0 float64
	for i, spec := range specs {
		src := s.stream(ordinal)
		ordinal++
		t, err := population.New(spec.Seed, spec.Size, src)
		if err != nil {
			return nil, fmt.Errorf("paired track %d: %w", i, err)
		}
		if i == 0 {
			p0 = t.P()
		} else if math.Abs(t.P()-p0) > 1e-12 {
			return nil, fmt.Errorf("paired track %d has p=%v, first has p=%v: %w", i, t.P(), p0, ErrInconsistentSeeds)
		}
		tracks = append(tracks, namedTrack{name: trackName(spec.Size), group: GroupPaired, track: t})
	}

	s.ordinal = ordinal
	s.initialP = s.candidate
	s.paired = tracks
	s.state = StateSimulating
	return s.views(s.paired), nil
}

// AdvanceAll advances every paired track by steps generations.
func (s *Session) AdvanceAll(steps int) ([]TrackView, error) {
	return s.Advance(GroupPaired, AllTracks, steps)
}

// Advance moves one track, or every track of group when index is AllTracks,
// forward by steps generations. Paired tracks only move together, keeping
// equal generation indices; no two tracks share draws. A rejected call
// changes nothing.
func (s *Session) Advance(group Group, index, steps int) ([]TrackView, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("advance %d: %w", steps, ErrInvalidStepCount)
	}

	var tracks []namedTrack
	switch group {
	case GroupPaired:
		if err := s.require("advance paired tracks", StateSimulating, StateDriftComparisonActive); err != nil {
			return nil, err
		}
		if index != AllTracks {
			return nil, fmt.Errorf("%w: paired tracks only advance together", ErrInvalidTransition)
		}
		tracks = s.paired
	case GroupDrift:
		if err := s.require("advance drift tracks", StateDriftComparisonActive); err != nil {
			return nil, err
		}
		tracks = s.drift
	default:
		return nil, fmt.Errorf("%w: group %q", ErrUnknownTrack, group)
	}

	if index != AllTracks {
		if index < 0 || index >= len(tracks) {
			return nil, fmt.Errorf("%w: %s track %d", ErrUnknownTrack, group, index)
		}
		tracks = tracks[index : index+1]
	}
	for _, nt := range tracks {
		if err := nt.track.Advance(steps); err != nil {
			return nil, fmt.Errorf("advance %s: %w", nt.name, err)
		}
	}
	return s.views(tracks), nil
}

// BeginDriftComparison starts one track per scenario drift size, all at the
// candidate frequency the paired run started from. The paired tracks must
// have reached MinGenerations.
func (s *Session) BeginDriftComparison() ([]TrackView, error) {
	if err := s.require("begin drift comparison", StateSimulating); err != nil {
		return nil, err
	}
	if g := s.minGeneration(s.paired); g < s.scenario.MinGenerations {
		return nil, fmt.Errorf("%w: paired tracks at generation %d, need %d", ErrNotReady, g, s.scenario.MinGenerations)
	}

	tracks := make([]namedTrack, 0, len(s.scenario.DriftSizes))
	for _, size := range s.scenario.DriftSizes {
		t, err := population.NewAtFrequency(s.initialP, size, s.stream(s.ordinal))
		if err != nil {
			return nil, fmt.Errorf("drift track N=%d: %w", size, err)
		}
		s.ordinal++
		tracks = append(tracks, namedTrack{name: trackName(size), group: GroupDrift, track: t})
	}
	s.drift = tracks
	s.state = StateDriftComparisonActive
	return s.views(s.drift), nil
}

// Conclude closes the exercise once every drift track has been advanced.
func (s *Session) Conclude() error {
	if err := s.require("conclude", StateDriftComparisonActive); err != nil {
		return err
	}
	if g := s.minGeneration(s.drift); g < 1 {
		return fmt.Errorf("%w: every drift track must be advanced at least once", ErrNotReady)
	}
	s.state = StateConcluded
	return nil
}

// Reset discards every track and all entered data.
func (s *Session) Reset() {
	s.epoch++
	s.clear()
}

func (s *Session) require(op string, allowed ...State) error {
	for _, st := range allowed {
		if s.state == st {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s in state %s", ErrInvalidTransition, op, s.state)
}

func (s *Session) evaluate() {
	total := s.scenario.TotalPopulation
	theo := genetics.TheoreticalCounts(s.candidate, total)
	s.matched = !s.overfull && s.observed.Total() == total &&
		genetics.Matches(s.observed, theo, s.scenario.Tolerance)
	if s.matched {
		s.state = StateTheoreticalMatchFound
	} else {
		s.state = StatePopulationDefined
	}
}

func (s *Session) overwriteOffered() bool {
	return s.state == StatePopulationDefined && !s.matched && s.attempts > s.scenario.MaxAttempts
}

// stream returns the PCG source for the ordinal-th track of the current epoch.
func (s *Session) stream(ordinal uint64) rand.Source {
	return rand.NewPCG(s.seed, s.epoch<<32|ordinal)
}

func (s *Session) minGeneration(tracks []namedTrack) int {
	if len(tracks) == 0 {
		return 0
	}
	lowest := tracks[0].track.Generation()
	for _, nt := range tracks[1:] {
		lowest = min(lowest, nt.track.Generation())
	}
	return lowest
}

func trackName(size int) string {
	return fmt.Sprintf("N=%d", size)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
