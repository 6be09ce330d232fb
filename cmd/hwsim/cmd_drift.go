package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/iammorganparry/hwsim/internal/population"
)

// driftSummary aggregates the final allele frequency over repeated runs of
// one population size.
type driftSummary struct {
	Size        int     `json:"size"`
	Trials      int     `json:"trials"`
	Generations int     `json:"generations"`
	InitialP    float64 `json:"initialP"`
	MeanP       float64 `json:"meanP"`
	VarianceP   float64 `json:"varianceP"`
	// ExpectedVariance is p(1-p)(1-(1-1/2N)^t) for an ideal random-mating population.
	ExpectedVariance float64 `json:"expectedVariance"`
	Fixed            int     `json:"fixed"`
}

func newDriftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Measure drift across many runs per population size",
		Long: `Start --trials independent populations of each size at allele frequency
--p, breed each for --generations and report how far the final frequency
spreads. Smaller populations spread further.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, seed, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			p, _ := cmd.Flags().GetFloat64("p")
			trials, _ := cmd.Flags().GetInt("trials")
			generations, _ := cmd.Flags().GetInt("generations")
			sizes, _ := cmd.Flags().GetIntSlice("sizes")
			if len(sizes) == 0 {
				sizes = scenario.DriftSizes
			}
			if generations <= 0 {
				generations = scenario.DriftSteps
			}
			if trials < 2 {
				return fmt.Errorf("--trials must be at least 2, got %d", trials)
			}
			if p < 0 || p > 1 {
				return fmt.Errorf("--p must be in [0,1], got %v", p)
			}

			out := make([]driftSummary, 0, len(sizes))
			for i, size := range sizes {
				sum, err := measureDrift(seed, uint64(i), p, size, generations, trials)
				if err != nil {
					return err
				}
				logger.Debug("drift measured", "size", size, "variance", sum.VarianceP)
				out = append(out, sum)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "seed %d  p0=%.2f  %d generations  %d trials\n\n", seed, p, generations, trials)
			fmt.Fprintf(w, "%8s %8s %10s %10s %6s\n", "N", "mean p", "var p", "expected", "fixed")
			for _, s := range out {
				fmt.Fprintf(w, "%8d %8.4f %10.6f %10.6f %6d\n", s.Size, s.MeanP, s.VarianceP, s.ExpectedVariance, s.Fixed)
			}
			return nil
		},
	}
	cmd.Flags().Float64("p", 0.5, "Starting allele frequency")
	cmd.Flags().Int("trials", 200, "Independent runs per population size")
	cmd.Flags().Int("generations", 0, "Generations per run (defaults to the scenario's drift steps)")
	cmd.Flags().IntSlice("sizes", nil, "Population sizes (defaults to the scenario's drift sizes)")
	return cmd
}

// measureDrift runs trials populations of size N from p, each on its own
// stream of seed.
func measureDrift(seed, stream uint64, p float64, size, generations, trials int) (driftSummary, error) {
	finals := make([]float64, 0, trials)
	fixed := 0
	for i := 0; i < trials; i++ {
		t, err := population.NewAtFrequency(p, size, rand.NewPCG(seed, stream<<32|uint64(i)))
		if err != nil {
			return driftSummary{}, err
		}
		if err := t.Advance(generations); err != nil {
			return driftSummary{}, err
		}
		if t.P() == 0 || t.P() == 1 {
			fixed++
		}
		finals = append(finals, t.P())
	}

	mean, variance := stat.MeanVariance(finals, nil)
	return driftSummary{
		Size:             size,
		Trials:           trials,
		Generations:      generations,
		InitialP:         p,
		MeanP:            mean,
		VarianceP:        variance,
		ExpectedVariance: p * (1 - p) * (1 - math.Pow(1-1/float64(2*size), float64(generations))),
		Fixed:            fixed,
	}, nil
}
