// Package population keeps the generation-by-generation history of one
// population of fixed size.
package population

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/iammorganparry/hwsim/internal/genetics"
)

var (
	// ErrInvalidStepCount is returned when asked to advance by zero or fewer generations.
	ErrInvalidStepCount = errors.New("step count must be positive")
	// ErrInvalidSeed is returned when seed counts do not partition the population size.
	ErrInvalidSeed = errors.New("seed counts must partition the population size")
)

// Record is one generation of a track. Records are values and never change
// once appended.
type Record struct {
	Generation int             `json:"generation"`
	Counts     genetics.Counts `json:"counts"`
	P          float64         `json:"p"`
}

// Q returns the r allele frequency of the record.
func (r Record) Q() float64 {
	return genetics.Q(r.P)
}

// Track is the append-only history of one population. The population size
// is fixed for its lifetime.
type Track struct {
	size    int
	history []Record
	sampler *genetics.Sampler
}

// New seeds generation 0 from observed counts, which must sum to size.
func New(seed genetics.Counts, size int, src rand.Source) (*Track, error) {
	if size <= 0 {
		return nil, fmt.Errorf("new track: %w", genetics.ErrInvalidPopulationSize)
	}
	if !seed.Valid() || seed.Total() != size {
		return nil, fmt.Errorf("new track of size %d from %v: %w", size, seed, ErrInvalidSeed)
	}
	return newTrack(size, Record{
		Generation: 0,
		Counts:     seed,
		P:          genetics.AlleleFrequency(seed, size),
	}, src), nil
}

// NewAtFrequency seeds generation 0 at allele frequency p exactly, with the
// expected genotype partition of p as its counts.
func NewAtFrequency(p float64, size int, src rand.Source) (*Track, error) {
	if size <= 0 {
		return nil, fmt.Errorf("new track at p=%.2f: %w", p, genetics.ErrInvalidPopulationSize)
	}
	p = genetics.Clamp(p)
	return newTrack(size, Record{
		Generation: 0,
		Counts:     genetics.ExpectedPartition(p, size),
		P:          p,
	}, src), nil
}

func newTrack(size int, first Record, src rand.Source) *Track {
	return &Track{
		size:    size,
		history: []Record{first},
		sampler: genetics.NewSampler(src),
	}
}

// Advance draws steps new generations, each from the frequency of the one
// before it. A non-positive steps leaves the track untouched.
func (t *Track) Advance(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("advance %d: %w", steps, ErrInvalidStepCount)
	}
	for i := 0; i < steps; i++ {
		last := t.history[len(t.history)-1]
		counts, p, err := t.sampler.Draw(last.P, t.size)
		if err != nil {
			return err
		}
		t.history = append(t.history, Record{
			Generation: last.Generation + 1,
			Counts:     counts,
			P:          p,
		})
	}
	return nil
}

// Size returns the population size.
func (t *Track) Size() int { return t.size }

// Generation returns the index of the latest generation.
func (t *Track) Generation() int { return len(t.history) - 1 }

// P returns the allele frequency of the latest generation.
func (t *Track) P() float64 { return t.history[len(t.history)-1].P }

// Current returns the latest generation.
func (t *Track) Current() Record { return t.history[len(t.history)-1] }

// Initial returns generation 0.
func (t *Track) Initial() Record { return t.history[0] }

// History returns a copy of every generation, oldest first.
func (t *Track) History() []Record {
	out := make([]Record, len(t.history))
	copy(out, t.history)
	return out
}

// Frequencies returns the p series, indexed by generation.
func (t *Track) Frequencies() []float64 {
	out := make([]float64, len(t.history))
	for i, r := range t.history {
		out[i] = r.P
	}
	return out
}
