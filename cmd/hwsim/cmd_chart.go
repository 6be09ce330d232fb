package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iammorganparry/hwsim/internal/chart"
	"github.com/iammorganparry/hwsim/internal/simulation"
)

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Run the exercise and draw the allele frequencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, seed, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			opts := exerciseFlags(cmd, scenario)
			groupName, _ := cmd.Flags().GetString("group")
			outPath, _ := cmd.Flags().GetString("out")
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			text, _ := cmd.Flags().GetBool("text")

			var group simulation.Group
			switch groupName {
			case "all":
			case string(simulation.GroupPaired), string(simulation.GroupDrift):
				group = simulation.Group(groupName)
			default:
				return fmt.Errorf("--group must be paired, drift or all, got %q", groupName)
			}
			if group == simulation.GroupDrift && !opts.drift {
				return fmt.Errorf("--group drift needs --drift")
			}

			sess, err := runExercise(scenario, seed, opts, logger)
			if err != nil {
				return err
			}
			series := chart.FromTracks(sess.Tracks(group))

			if text {
				plot, err := chart.RenderText(series, width/10, height/40)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), plot)
				return nil
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			title := fmt.Sprintf("Allele frequencies (seed %d)", seed)
			if err := chart.RenderPNG(f, title, series, width, height); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			logger.Info("chart written", "path", outPath)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}
	addExerciseFlags(cmd)
	cmd.Flags().String("group", "all", "Tracks to draw: paired, drift or all")
	cmd.Flags().StringP("out", "o", "hwsim.png", "PNG output path")
	cmd.Flags().Int("width", 800, "Chart width in pixels")
	cmd.Flags().Int("height", 400, "Chart height in pixels")
	cmd.Flags().Bool("text", false, "Print an ASCII chart instead of writing a PNG")
	return cmd
}
