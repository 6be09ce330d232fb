package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/iammorganparry/hwsim/internal/config"
	"github.com/iammorganparry/hwsim/internal/genetics"
	"github.com/iammorganparry/hwsim/internal/logging"
	"github.com/iammorganparry/hwsim/internal/simulation"
)

// exerciseOptions describes one headless run of the exercise.
type exerciseOptions struct {
	dominant    int
	recessive   int
	generations int
	drift       bool
	driftSteps  int
}

// addExerciseFlags registers the flags shared by simulate and chart. Zero
// values fall back to the scenario.
func addExerciseFlags(cmd *cobra.Command) {
	cmd.Flags().Int("dominant", -1, "Observed blue (RR) count")
	cmd.Flags().Int("recessive", -1, "Observed green (rr) count")
	cmd.Flags().Int("generations", 0, "Generations to breed the paired populations")
	cmd.Flags().Bool("drift", true, "Run the drift comparison after the paired populations")
	cmd.Flags().Int("drift-steps", 0, "Generations to advance each drift population")
}

func exerciseFlags(cmd *cobra.Command, scenario simulation.Scenario) exerciseOptions {
	opts := exerciseOptions{}
	opts.dominant, _ = cmd.Flags().GetInt("dominant")
	opts.recessive, _ = cmd.Flags().GetInt("recessive")
	opts.generations, _ = cmd.Flags().GetInt("generations")
	opts.drift, _ = cmd.Flags().GetBool("drift")
	opts.driftSteps, _ = cmd.Flags().GetInt("drift-steps")

	if opts.dominant < 0 {
		opts.dominant = scenario.DefaultPopulation.Dominant
	}
	if opts.recessive < 0 {
		opts.recessive = scenario.DefaultPopulation.Recessive
	}
	if opts.generations <= 0 {
		opts.generations = scenario.MinGenerations
	}
	if opts.driftSteps <= 0 {
		opts.driftSteps = scenario.DriftSteps
	}
	return opts
}

// setup reads the global flags into a scenario, seed and logger.
func setup(cmd *cobra.Command) (simulation.Scenario, uint64, *slog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	logger := logging.NewLogger(level, cmd.ErrOrStderr())

	path, _ := cmd.Flags().GetString("scenario")
	scenario, err := config.LoadScenario(path)
	if err != nil {
		return simulation.Scenario{}, 0, nil, err
	}

	seed, _ := cmd.Flags().GetUint64("seed")
	if seed == 0 {
		seed = rand.Uint64()
	}
	return scenario, seed, logger, nil
}

// runExercise plays the exercise the way a student would: enter the
// population, propose the allele frequency it implies, breed the paired
// populations and optionally compare drift.
func runExercise(scenario simulation.Scenario, seed uint64, opts exerciseOptions, logger *slog.Logger) (*simulation.Session, error) {
	sess, err := simulation.New(scenario, seed)
	if err != nil {
		return nil, err
	}

	res, err := sess.DefinePopulation(opts.dominant, opts.recessive)
	if err != nil {
		return nil, err
	}
	if res.Warning != "" {
		return nil, fmt.Errorf("population %d/%d: %s", opts.dominant, opts.recessive, res.Warning)
	}
	logger.Debug("population defined", "observed", res.Observed.String())

	p := genetics.RoundHundredths(genetics.AlleleFrequency(res.Observed, scenario.TotalPopulation))
	if res, err = sess.ProposeFrequency(p); err != nil {
		return nil, err
	}
	// Populations far from equilibrium never match; wander around p until
	// the theoretical overwrite is offered.
	step := 0.01
	if p >= 0.5 {
		step = -0.01
	}
	for i := 0; !res.Matched && !res.OverwriteOffered; i++ {
		next := p
		if i%2 == 0 {
			next = p + step
		}
		if res, err = sess.ProposeFrequency(next); err != nil {
			return nil, err
		}
	}
	if !res.Matched {
		if res, err = sess.OverwriteWithTheoretical(); err != nil {
			return nil, err
		}
		logger.Info("observed population replaced with theoretical counts", "p", res.Candidate)
	}
	logger.Debug("frequency matched", "p", res.Candidate, "attempts", res.Attempts)

	if _, err := sess.StartSimulation(); err != nil {
		return nil, err
	}
	if _, err := sess.AdvanceAll(opts.generations); err != nil {
		return nil, err
	}
	logger.Debug("paired populations advanced", "generations", opts.generations)

	if !opts.drift {
		return sess, nil
	}
	if opts.generations < scenario.MinGenerations {
		return nil, fmt.Errorf("drift comparison needs %d paired generations, have %d", scenario.MinGenerations, opts.generations)
	}
	if _, err := sess.BeginDriftComparison(); err != nil {
		return nil, err
	}
	if _, err := sess.Advance(simulation.GroupDrift, simulation.AllTracks, opts.driftSteps); err != nil {
		return nil, err
	}
	if err := sess.Conclude(); err != nil {
		return nil, err
	}
	logger.Debug("drift comparison concluded", "steps", opts.driftSteps)
	return sess, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
