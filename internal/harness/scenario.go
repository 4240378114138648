package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines an evaluation scenario: one model, a list of input
// cases, and the outcome each case is expected to produce.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Model is the path to the model YAML, relative to the scenario file.
	Model string `yaml:"model"`

	// Cases are the inputs to evaluate, in order.
	Cases []Case `yaml:"cases"`
}

// Case is one input observation with its expected outcome.
type Case struct {
	// Input is the numeric observation fed to the model.
	Input float64 `yaml:"input"`

	// From overrides the graph start node. Nil means the model default.
	From *int `yaml:"from,omitempty"`

	// To selects shortest-path evaluation toward the given node.
	// Requires From.
	To *int `yaml:"to,omitempty"`

	// Expect validates the outcome. Nil skips validation.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected case outcome. Exactly one of Value or
// ErrorCode should be set.
type Expect struct {
	// Value is the expected rendered outcome, e.g. "Value(true)".
	Value string `yaml:"value,omitempty"`

	// ErrorCode is the expected evaluation error code.
	ErrorCode string `yaml:"error_code,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. The model path is
// resolved relative to the scenario file's directory. Unknown fields
// are rejected so typos fail loudly instead of silently skipping cases.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if !filepath.IsAbs(scenario.Model) && scenario.Model != "" {
		scenario.Model = filepath.Join(filepath.Dir(path), scenario.Model)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Model == "" {
		return fmt.Errorf("model is required")
	}
	if _, err := os.Stat(s.Model); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", s.Model)
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}
	for i, c := range s.Cases {
		if c.To != nil && c.From == nil {
			return fmt.Errorf("cases[%d]: to requires from", i)
		}
		if c.Expect != nil && c.Expect.Value == "" && c.Expect.ErrorCode == "" {
			return fmt.Errorf("cases[%d].expect: value or error_code is required", i)
		}
	}
	return nil
}
