// Package scenario runs scripted search-widget scenarios against a session.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Action names a harness operation a step performs
type Action string

const (
	ActionAssertPresent        Action = "assert_present"
	ActionShow                 Action = "show"
	ActionSearch               Action = "search"
	ActionSelect               Action = "select"
	ActionSearchAndSelect      Action = "search_and_select"
	ActionSelectFirst          Action = "select_first"
	ActionSearchAndSelectFirst Action = "search_and_select_first"
	ActionCancel               Action = "cancel"
	ActionReset                Action = "reset"
	ActionAssertSelected       Action = "assert_selected"
	ActionAssertFirstResult    Action = "assert_first_result"
	ActionAssertEmpty          Action = "assert_empty"
	ActionAssertContains       Action = "assert_contains"
	ActionAssertNotContains    Action = "assert_not_contains"
)

// Scenario is one end-to-end test case
type Scenario struct {
	Name     string    `yaml:"name" validate:"required"`
	URL      string    `yaml:"url"`
	Fixtures []Fixture `yaml:"fixtures" validate:"dive"`
	Steps    []Step    `yaml:"steps" validate:"required,min=1,dive"`
}

// Fixture describes a widget for sessions that render their own (the simulated backend)
type Fixture struct {
	Field    string        `yaml:"field" validate:"required"`
	Mode     string        `yaml:"mode"`
	Options  []string      `yaml:"options"`
	Debounce time.Duration `yaml:"debounce"`
	Nullable bool          `yaml:"nullable"`
	Selected string        `yaml:"selected"`
}

// Step is a single harness operation
type Step struct {
	Field    string        `yaml:"field" validate:"required"`
	Mode     string        `yaml:"mode"`
	Action   Action        `yaml:"action" validate:"required,oneof=assert_present show search select search_and_select select_first search_and_select_first cancel reset assert_selected assert_first_result assert_empty assert_contains assert_not_contains"`
	Query    string        `yaml:"query"`
	Index    int           `yaml:"index" validate:"gte=0"`
	Settle   time.Duration `yaml:"settle" validate:"gte=0"`
	Expect   string        `yaml:"expect"`
	Keywords []string      `yaml:"keywords"`

	// ExpectError turns a failure of this kind into a pass
	ExpectError string `yaml:"expect_error" validate:"omitempty,oneof=timeout not_found assertion"`
}

func (s Step) String() string {
	if s.Mode == "" {
		return fmt.Sprintf("%s %s", s.Action, s.Field)
	}
	return fmt.Sprintf("%s %s(%s)", s.Action, s.Field, s.Mode)
}

// Parse - decodes and validates a YAML scenario
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := Validate(&sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load - reads and parses the scenario file at path
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Validate - checks a scenario, including per-action required fields
func Validate(sc *Scenario) error {
	if err := validator.New().Struct(sc); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	for i, step := range sc.Steps {
		switch step.Action {
		case ActionSearch, ActionSearchAndSelect, ActionSearchAndSelectFirst:
			if step.Query == "" {
				return fmt.Errorf("invalid scenario: step %d (%s) needs a query", i+1, step)
			}
		case ActionAssertSelected, ActionAssertFirstResult:
			if step.Expect == "" {
				return fmt.Errorf("invalid scenario: step %d (%s) needs expect", i+1, step)
			}
		case ActionAssertContains, ActionAssertNotContains:
			if len(step.Keywords) == 0 {
				return fmt.Errorf("invalid scenario: step %d (%s) needs keywords", i+1, step)
			}
		}
	}
	return nil
}
