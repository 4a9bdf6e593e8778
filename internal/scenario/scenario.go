package scenario

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/engine"
	"github.com/roach88/eldritch/internal/victory"
)

// Scenario is one scripted campaign.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Seed drives the dice when Rolls is empty. Zero leaves the seed to the
	// runner.
	Seed int64 `yaml:"seed,omitempty"`

	// Rolls scripts the dice in draw order. Once the script runs out the
	// dice fall back to seed 0.
	Rolls []float64 `yaml:"rolls,omitempty"`

	// Legacy lists perk ids carried over from an earlier campaign.
	Legacy []string `yaml:"legacy,omitempty"`

	Campaign   campaign.Snapshot `yaml:"campaign"`
	Turns      []Turn            `yaml:"turns"`
	Assertions []Assertion       `yaml:"assertions,omitempty"`
}

// Turn is one step of the script.
type Turn struct {
	Orders []engine.Order `yaml:"orders,omitempty"`

	// Repeat plays the same orders this many times. Zero means once.
	Repeat int `yaml:"repeat,omitempty"`

	// Expect is matched against the turn's outcomes by position.
	Expect []Expect `yaml:"expect,omitempty"`

	// ExpectError is the engine error code the turn must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Expect checks one order outcome. Message is a substring match.
type Expect struct {
	Order   string `yaml:"order"`
	Success *bool  `yaml:"success,omitempty"`
	Message string `yaml:"message,omitempty"`
}

// Assertion checks the finished run.
type Assertion struct {
	Type string `yaml:"type"`

	// Kind is the event kind for event_emitted and event_count.
	Kind string `yaml:"kind,omitempty"`

	// Kinds must appear in this order for event_order, not necessarily
	// adjacent.
	Kinds []string `yaml:"kinds,omitempty"`

	Count int `yaml:"count,omitempty"`

	// Field, Expect, Min and Max are used by final_state.
	Field  string   `yaml:"field,omitempty"`
	Expect any      `yaml:"expect,omitempty"`
	Min    *float64 `yaml:"min,omitempty"`
	Max    *float64 `yaml:"max,omitempty"`

	// Ending is the latched ending, or "none".
	Ending string `yaml:"ending,omitempty"`
}

// Assertion types.
const (
	AssertEventEmitted = "event_emitted"
	AssertEventOrder   = "event_order"
	AssertEventCount   = "event_count"
	AssertFinalState   = "final_state"
	AssertEnding       = "ending"
)

// EndingNone asserts that no ending was reached.
const EndingNone = "none"

var validName = regexp.MustCompile(`^[a-z0-9_]+$`)

// Load reads and checks a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks a scenario document. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := checkSchema(doc); err != nil {
		return nil, err
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks what the schema cannot: cross references and the
// shape of each assertion.
func validateScenario(s *Scenario) error {
	if !validName.MatchString(s.Name) {
		return fmt.Errorf("name %q must be lower case letters, digits and underscores", s.Name)
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Turns) == 0 {
		return fmt.Errorf("turns list is required and must be non-empty")
	}
	if s.Seed != 0 && len(s.Rolls) > 0 {
		return fmt.Errorf("seed and rolls are mutually exclusive")
	}
	for i, r := range s.Rolls {
		if r < 0 || r >= 1 {
			return fmt.Errorf("rolls[%d]: %v outside [0,1)", i, r)
		}
	}
	for _, id := range s.Legacy {
		if _, ok := victory.PerkByID(id); !ok {
			return fmt.Errorf("legacy: unknown perk %q", id)
		}
	}
	if _, err := campaign.NewState(s.Campaign); err != nil {
		return fmt.Errorf("campaign: %w", err)
	}

	for i, t := range s.Turns {
		if t.Repeat < 0 {
			return fmt.Errorf("turns[%d]: repeat must not be negative", i)
		}
		if t.ExpectError != "" && len(t.Expect) > 0 {
			return fmt.Errorf("turns[%d]: expect and expect_error are mutually exclusive", i)
		}
		for j, e := range t.Expect {
			if e.Order == "" {
				return fmt.Errorf("turns[%d].expect[%d]: order is required", i, j)
			}
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertEventEmitted, AssertEventCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for %s", index, a.Type)
		}
	case AssertEventOrder:
		if len(a.Kinds) < 2 {
			return fmt.Errorf("assertions[%d]: event_order needs at least two kinds", index)
		}
	case AssertFinalState:
		if _, ok := fields[a.Field]; !ok {
			return fmt.Errorf("assertions[%d]: unknown final_state field %q", index, a.Field)
		}
		if a.Expect == nil && a.Min == nil && a.Max == nil {
			return fmt.Errorf("assertions[%d]: final_state needs expect, min or max", index)
		}
	case AssertEnding:
		if a.Ending == "" {
			return fmt.Errorf("assertions[%d]: ending is required", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	return nil
}
