package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iammorganparry/hwsim/internal/chart"
	"github.com/iammorganparry/hwsim/internal/simulation"
)

type simulateResult struct {
	Snapshot simulation.Snapshot     `json:"snapshot"`
	Stats    []simulation.TrackStats `json:"stats"`
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the whole exercise and print every population",
		Long: `Run the exercise headless: define the observed population, match its
allele frequency, breed the paired populations and, unless --drift=false,
advance the drift comparison before concluding.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, seed, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			opts := exerciseFlags(cmd, scenario)
			plot, _ := cmd.Flags().GetBool("plot")

			sess, err := runExercise(scenario, seed, opts, logger)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd, simulateResult{Snapshot: sess.Snapshot(), Stats: sess.Stats()})
			}
			return printExercise(cmd.OutOrStdout(), sess, plot)
		},
	}
	addExerciseFlags(cmd)
	cmd.Flags().Bool("plot", true, "Draw ASCII charts of p and q")
	return cmd
}

func printExercise(w io.Writer, sess *simulation.Session, plot bool) error {
	snap := sess.Snapshot()
	m := snap.Match
	fmt.Fprintf(w, "seed %d  state %s\n", snap.Seed, snap.State)
	fmt.Fprintf(w, "observed RR=%d Rr=%d rr=%d  p=%.2f q=%.2f  attempts %d\n",
		m.Observed.Dominant, m.Observed.Heterozygous, m.Observed.Recessive, m.Candidate, m.Q, m.Attempts)

	sections := []struct {
		title string
		group simulation.Group
	}{
		{"Paired populations", simulation.GroupPaired},
		{"Genetic drift", simulation.GroupDrift},
	}
	for _, sec := range sections {
		tracks := sess.Tracks(sec.group)
		if len(tracks) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", sec.title)
		for _, t := range tracks {
			fmt.Fprintf(w, "  %-8s gen %-4d p=%.3f q=%.3f\n", t.Name, t.Generation, t.P, t.Q)
		}
		if !plot {
			continue
		}
		text, err := chart.RenderText(chart.FromTracks(tracks), 60, 10)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n", text)
	}

	if snap.State != simulation.StateConcluded {
		return nil
	}
	fmt.Fprintf(w, "\n%-8s %-7s %8s %8s %9s %8s %s\n", "track", "group", "p0", "p", "sd", "range", "fixed")
	for _, s := range sess.Stats() {
		fmt.Fprintf(w, "%-8s %-7s %8.3f %8.3f %9.4f %8.3f %t\n",
			s.Name, s.Group, s.InitialP, s.CurrentP, s.StdDevP, s.Range, s.Fixed)
	}
	return nil
}
