package simulation

import (
	"errors"
	"fmt"
	"slices"
)

// Scenario fixes the parameters of one classroom exercise.
type Scenario struct {
	// TotalPopulation is the size of the observed population.
	TotalPopulation int `json:"totalPopulation" yaml:"total_population"`
	// Tolerance is the per-class count distance accepted as a match. It is
	// absolute and is not rescaled with TotalPopulation.
	Tolerance int `json:"tolerance" yaml:"tolerance"`
	// MaxAttempts is how many candidate changes are allowed before the
	// theoretical overwrite is offered.
	MaxAttempts      int     `json:"maxAttempts" yaml:"max_attempts"`
	InitialCandidate float64 `json:"initialCandidate" yaml:"initial_candidate"`
	// MinGenerations gates the drift comparison.
	MinGenerations    int   `json:"minGenerations" yaml:"min_generations"`
	PairedMultipliers []int `json:"pairedMultipliers" yaml:"paired_multipliers"`
	DriftSizes        []int `json:"driftSizes" yaml:"drift_sizes"`
	// FastForward and DriftSteps are the step sizes offered by front ends.
	FastForward       int               `json:"fastForward" yaml:"fast_forward"`
	DriftSteps        int               `json:"driftSteps" yaml:"drift_steps"`
	DefaultPopulation DefaultPopulation `json:"defaultPopulation" yaml:"default_population"`
}

// DefaultPopulation is the observed population a fresh exercise starts with.
type DefaultPopulation struct {
	Dominant  int `json:"dominant" yaml:"dominant"`
	Recessive int `json:"recessive" yaml:"recessive"`
}

// DefaultScenario returns the reference exercise: 5000 birds, paired runs at
// N=5000 and N=10000, then drift runs at N=500 and N=20000.
func DefaultScenario() Scenario {
	return Scenario{
		TotalPopulation:   5000,
		Tolerance:         80,
		MaxAttempts:       10,
		InitialCandidate:  0.50,
		MinGenerations:    10,
		PairedMultipliers: []int{1, 2},
		DriftSizes:        []int{500, 20000},
		FastForward:       10,
		DriftSteps:        20,
		DefaultPopulation: DefaultPopulation{Dominant: 1500, Recessive: 1000},
	}
}

// FitDefaultPopulation returns s with its default population entry emptied
// when the entry does not fit in TotalPopulation, as happens when a smaller
// population overrides the reference one.
func (s Scenario) FitDefaultPopulation() Scenario {
	d := s.DefaultPopulation
	if d.Dominant+d.Recessive > s.TotalPopulation {
		s.DefaultPopulation = DefaultPopulation{}
	}
	return s
}

func (s Scenario) clone() Scenario {
	s.PairedMultipliers = slices.Clone(s.PairedMultipliers)
	s.DriftSizes = slices.Clone(s.DriftSizes)
	return s
}

// Validate checks the scenario for values the session cannot run with.
func (s Scenario) Validate() error {
	var errs []error
	if s.TotalPopulation < 1 {
		errs = append(errs, fmt.Errorf("total_population must be positive, got %d", s.TotalPopulation))
	}
	if s.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("tolerance must not be negative, got %d", s.Tolerance))
	}
	if s.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("max_attempts must not be negative, got %d", s.MaxAttempts))
	}
	if s.InitialCandidate < 0 || s.InitialCandidate > 1 {
		errs = append(errs, fmt.Errorf("initial_candidate must be in [0,1], got %v", s.InitialCandidate))
	}
	if len(s.PairedMultipliers) == 0 {
		errs = append(errs, errors.New("paired_multipliers must not be empty"))
	}
	for _, m := range s.PairedMultipliers {
		if m < 1 {
			errs = append(errs, fmt.Errorf("paired_multipliers must be positive, got %d", m))
		}
	}
	if len(s.DriftSizes) == 0 {
		errs = append(errs, errors.New("drift_sizes must not be empty"))
	}
	for _, n := range s.DriftSizes {
		if n < 1 {
			errs = append(errs, fmt.Errorf("drift_sizes must be positive, got %d", n))
		}
	}
	if s.FastForward < 1 || s.DriftSteps < 1 {
		errs = append(errs, errors.New("fast_forward and drift_steps must be positive"))
	}
	d := s.DefaultPopulation
	if d.Dominant < 0 || d.Recessive < 0 || d.Dominant+d.Recessive > s.TotalPopulation {
		errs = append(errs, fmt.Errorf("default_population %d+%d does not fit in %d", d.Dominant, d.Recessive, s.TotalPopulation))
	}
	return errors.Join(errs...)
}
