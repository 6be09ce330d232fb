package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hwsim",
		Short: "Hardy-Weinberg drift simulator",
		Long: `hwsim runs the Hardy-Weinberg exercise without a terminal UI.

It derives the allele frequency of an observed population, breeds the
paired populations generation by generation, and compares genetic drift
in a small and a large population.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("scenario", "", "Scenario YAML file (defaults to the reference exercise)")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Random seed (0 picks one)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(),
		newDriftCmd(),
		newChartCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd, map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "hwsim version %s\n", version)
			return nil
		},
	}
}
