package game

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Plan configures an automation run: the sweep cadence and optional
// mining assignments executed each pass.
type Plan struct {
	// Interval between sweeps. Zero means DefaultSweepInterval.
	Interval time.Duration `yaml:"interval"`

	// Iterations bounds the run; zero runs until ctx cancellation.
	Iterations int `yaml:"iterations"`

	// Contracts enables the accept/deliver/fulfill pass.
	Contracts bool `yaml:"contracts"`

	// Mining assigns ships to extraction targets.
	Mining []MiningAssignment `yaml:"mining"`
}

// MiningAssignment sends one ship to mine a waypoint, preferring
// surveys that match Resource when set.
type MiningAssignment struct {
	Ship     string `yaml:"ship"`
	Waypoint string `yaml:"waypoint"`
	Resource string `yaml:"resource"`

	// DeliverTo, when set, names the contract to deliver yields to.
	DeliverTo string `yaml:"deliver_to"`
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- plan path is user-provided
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}
	return ParsePlan(path, data)
}

// ParsePlan parses plan YAML.
func ParsePlan(source string, data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", source, err)
	}

	if plan.Interval < 0 {
		return nil, fmt.Errorf("plan %s: interval must not be negative", source)
	}
	if plan.Iterations < 0 {
		return nil, fmt.Errorf("plan %s: iterations must not be negative", source)
	}
	for i, assignment := range plan.Mining {
		if assignment.Ship == "" {
			return nil, fmt.Errorf("plan %s: mining[%d] missing ship", source, i)
		}
		if assignment.Waypoint == "" {
			return nil, fmt.Errorf("plan %s: mining[%d] missing waypoint", source, i)
		}
	}
	return &plan, nil
}
