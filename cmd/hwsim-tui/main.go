package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iammorganparry/hwsim/internal/config"
	"github.com/iammorganparry/hwsim/internal/logging"
	"github.com/iammorganparry/hwsim/internal/simulation"
	"github.com/iammorganparry/hwsim/internal/tui"
)

func main() {
	// The alt screen owns the terminal; logs only go to HWSIM_TUI_LOG
	logger := logging.Discard()
	if path := os.Getenv("HWSIM_TUI_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = logging.NewLogger(os.Getenv("LOG_LEVEL"), f)
	}

	scenario, err := config.LoadScenario(os.Getenv("HWSIM_SCENARIO"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}

	seed := rand.Uint64()
	if s := os.Getenv("HWSIM_SEED"); s != "" {
		seed, err = strconv.ParseUint(s, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid HWSIM_SEED %q: %v\n", s, err)
			os.Exit(1)
		}
	}

	sess, err := simulation.New(scenario, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating session: %v\n", err)
		os.Exit(1)
	}
	logger.Info("tui session created", "seed", seed, "total_population", scenario.TotalPopulation)

	p := tea.NewProgram(
		tui.NewRootModel(sess),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	logger.Info("tui session ended", "state", sess.State())
}
