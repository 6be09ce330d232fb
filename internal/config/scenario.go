package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iammorganparry/hwsim/internal/simulation"
)

// LoadScenario reads a YAML scenario file over the reference defaults. Keys
// missing from the file keep their default; an empty path returns the
// defaults unchanged.
func LoadScenario(path string) (simulation.Scenario, error) {
	scenario := simulation.DefaultScenario()
	if path == "" {
		return scenario, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return scenario, fmt.Errorf("read scenario: %w", err)
	}
	if err := ParseScenario(data, &scenario); err != nil {
		return scenario, fmt.Errorf("scenario %s: %w", path, err)
	}
	return scenario, nil
}

// ParseScenario decodes YAML into scenario and validates the result.
func ParseScenario(data []byte, scenario *simulation.Scenario) error {
	inherited := scenario.DefaultPopulation
	if err := yaml.Unmarshal(data, scenario); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	// An inherited entry follows a smaller total; an explicit one must fit.
	if scenario.DefaultPopulation == inherited {
		*scenario = scenario.FitDefaultPopulation()
	}
	return scenario.Validate()
}
