package simulation

import (
	"errors"

	"github.com/iammorganparry/hwsim/internal/population"
)

// State is the exercise phase a session is in.
type State string

const (
	StateUninitialized         State = "uninitialized"
	StatePopulationDefined     State = "population_defined"
	StateTheoreticalMatchFound State = "theoretical_match_found"
	StateSimulating            State = "simulating"
	StateDriftComparisonActive State = "drift_comparison_active"
	StateConcluded             State = "concluded"
)

func (s State) String() string { return string(s) }

// Group selects which set of tracks a command targets.
type Group string

const (
	// GroupPaired holds the tracks seeded from the observed population.
	GroupPaired Group = "paired"
	// GroupDrift holds the tracks created for the drift comparison.
	GroupDrift Group = "drift"
)

// AllTracks addresses every track of a group.
const AllTracks = -1

var (
	// ErrInvalidTransition is returned for a command the current state does not accept.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotReady is returned when a transition's precondition has not been met yet.
	ErrNotReady = errors.New("not ready")
	// ErrInvalidPopulationTotal is returned when observed counts do not add up to the total population.
	ErrInvalidPopulationTotal = errors.New("observed counts do not add up to the total population")
	// ErrInconsistentSeeds is returned when paired seeds do not share one allele frequency.
	ErrInconsistentSeeds = errors.New("paired seeds must share one allele frequency")
	// ErrUnknownTrack is returned for a track index or group that does not exist.
	ErrUnknownTrack = errors.New("unknown track")
	// ErrInvalidScenario is returned by New for a scenario that fails validation.
	ErrInvalidScenario = errors.New("invalid scenario")
	// ErrInvalidStepCount is returned for a non-positive advance.
	ErrInvalidStepCount = population.ErrInvalidStepCount
)

// WarnInvalidPopulationTotal is the advisory shown when the two entered
// homozygous counts already exceed the total population.
const WarnInvalidPopulationTotal = "total exceeds the population size; heterozygous count clamped to 0"
