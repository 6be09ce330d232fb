package genetics

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidPopulationSize is returned for a non-positive population size.
var ErrInvalidPopulationSize = errors.New("population size must be positive")

// Sampler draws one generation of genotype counts from a prior allele
// frequency. Each Sampler owns its random source; it is not safe for
// concurrent use.
type Sampler struct {
	src rand.Source
}

// NewSampler creates a sampler reading entropy from src.
func NewSampler(src rand.Source) *Sampler {
	return &Sampler{src: src}
}

// NewSeededSampler creates a sampler on a PCG stream. Equal (seed, stream)
// pairs replay identical draws.
func NewSeededSampler(seed, stream uint64) *Sampler {
	return NewSampler(rand.NewPCG(seed, stream))
}

// Draw samples n offspring genotypes from the Hardy-Weinberg proportions of
// priorP and returns the counts with the allele frequency they carry. The
// counts always sum to exactly n.
func (s *Sampler) Draw(priorP float64, n int) (Counts, float64, error) {
	if n <= 0 {
		return Counts{}, 0, fmt.Errorf("draw generation of size %d: %w", n, ErrInvalidPopulationSize)
	}
	k := s.multinomial(n, Proportions(Clamp(priorP)))
	c := Counts{Dominant: k[0], Heterozygous: k[1], Recessive: k[2]}
	return c, AlleleFrequency(c, n), nil
}

// multinomial draws a three-category multinomial as a chain of conditional
// binomials: k0 ~ B(n, p0), k1 ~ B(n-k0, p1/(1-p0)), k2 = rest.
func (s *Sampler) multinomial(n int, probs [3]float64) [3]int {
	var k [3]int
	remaining := n
	mass := 1.0
	for i := 0; i < len(probs)-1; i++ {
		if remaining == 0 {
			break
		}
		cond := 0.0
		if mass > 0 {
			cond = probs[i] / mass
		}
		k[i] = s.binomial(remaining, cond)
		remaining -= k[i]
		mass -= probs[i]
	}
	k[len(probs)-1] = remaining
	return k
}

func (s *Sampler) binomial(n int, p float64) int {
	switch {
	case p <= 0 || math.IsNaN(p):
		return 0
	case p >= 1:
		return n
	}
	b := distuv.Binomial{N: float64(n), P: p, Src: s.src}
	v := int(math.Round(b.Rand()))
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}
