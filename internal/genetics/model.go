// Package genetics holds the Hardy-Weinberg arithmetic for a two-allele,
// three-genotype population and the sampler that draws one generation.
package genetics

import (
	"fmt"
	"math"
)

// DefaultTolerance is the absolute count distance accepted by Matches.
// It was calibrated against a population of 5000 and is not rescaled for
// other sizes.
const DefaultTolerance = 80

// Phenotype labels shown next to each genotype.
const (
	LabelDominant     = "[Bleu]"
	LabelHeterozygous = "[Magenta]"
	LabelRecessive    = "[Vert]"
)

// Counts is an ordered genotype triple (RR, Rr, rr).
type Counts struct {
	Dominant     int `json:"dominant" yaml:"dominant"`
	Heterozygous int `json:"heterozygous" yaml:"heterozygous"`
	Recessive    int `json:"recessive" yaml:"recessive"`
}

// Total returns RR + Rr + rr.
func (c Counts) Total() int {
	return c.Dominant + c.Heterozygous + c.Recessive
}

// Valid reports whether every count is non-negative.
func (c Counts) Valid() bool {
	return c.Dominant >= 0 && c.Heterozygous >= 0 && c.Recessive >= 0
}

// Scale multiplies every count by factor.
func (c Counts) Scale(factor int) Counts {
	return Counts{
		Dominant:     c.Dominant * factor,
		Heterozygous: c.Heterozygous * factor,
		Recessive:    c.Recessive * factor,
	}
}

func (c Counts) String() string {
	return fmt.Sprintf("RR=%d Rr=%d rr=%d", c.Dominant, c.Heterozygous, c.Recessive)
}

// Q returns the frequency of the r allele.
func Q(p float64) float64 {
	return 1 - p
}

// Clamp bounds p to [0,1]. NaN maps to 0.
func Clamp(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// Proportions returns the expected genotype frequencies p², 2pq and q².
func Proportions(p float64) [3]float64 {
	q := Q(p)
	return [3]float64{p * p, 2 * p * q, q * q}
}

// TheoreticalCounts truncates p²·n, 2pq·n and q²·n. The three values may
// sum to slightly less than n.
func TheoreticalCounts(p float64, n int) Counts {
	props := Proportions(p)
	return Counts{
		Dominant:     int(math.Floor(props[0] * float64(n))),
		Heterozygous: int(math.Floor(props[1] * float64(n))),
		Recessive:    int(math.Floor(props[2] * float64(n))),
	}
}

// ExpectedPartition is TheoreticalCounts with the truncation remainder
// assigned to the heterozygous class, so the result sums to exactly n.
func ExpectedPartition(p float64, n int) Counts {
	c := TheoreticalCounts(Clamp(p), n)
	c.Heterozygous += n - c.Total()
	return c
}

// AlleleFrequency returns (2·RR + Rr) / 2n, or NaN when n is zero.
func AlleleFrequency(c Counts, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return float64(2*c.Dominant+c.Heterozygous) / float64(2*n)
}

// Matches reports whether the homozygous classes of observed and
// theoretical are each within tolerance. The heterozygous class is not
// compared.
func Matches(observed, theoretical Counts, tolerance int) bool {
	return absInt(observed.Dominant-theoretical.Dominant) <= tolerance &&
		absInt(observed.Recessive-theoretical.Recessive) <= tolerance
}

// RoundHundredths snaps p to the 0.01 grid used for candidate frequencies.
func RoundHundredths(p float64) float64 {
	return math.Round(p*100) / 100
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
