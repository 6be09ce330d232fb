package population

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises how far a track's allele frequency has wandered.
type Stats struct {
	Size        int     `json:"size"`
	Generations int     `json:"generations"`
	InitialP    float64 `json:"initialP"`
	CurrentP    float64 `json:"currentP"`
	MeanP       float64 `json:"meanP"`
	VarianceP   float64 `json:"varianceP"`
	StdDevP     float64 `json:"stdDevP"`
	MinP        float64 `json:"minP"`
	MaxP        float64 `json:"maxP"`
	Range       float64 `json:"range"`
	// Fixed is set once one allele is lost; p=0 and p=1 are absorbing.
	Fixed bool `json:"fixed"`
}

// Summarize computes drift statistics over the whole history.
func (t *Track) Summarize() Stats {
	ps := t.Frequencies()
	s := Stats{
		Size:        t.size,
		Generations: t.Generation(),
		InitialP:    ps[0],
		CurrentP:    ps[len(ps)-1],
		MeanP:       stat.Mean(ps, nil),
		MinP:        floats.Min(ps),
		MaxP:        floats.Max(ps),
	}
	if len(ps) > 1 {
		s.VarianceP = stat.Variance(ps, nil)
		s.StdDevP = stat.StdDev(ps, nil)
	}
	s.Range = s.MaxP - s.MinP
	s.Fixed = s.CurrentP == 0 || s.CurrentP == 1
	return s
}
