// Package scenario loads declarative simulation scripts from YAML and
// executes them against the cycle-stepping simulator. A scenario names a
// device interaction flow (presses, taps, cycle runs, time skips) plus
// the report and cycle expectations to check along the way.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one simulation script.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file
	// and the recorded run.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// CycleDurationMillis is the simulated duration of one scan cycle.
	CycleDurationMillis int64 `yaml:"cycle_duration_ms"`

	// Options tunes the simulator's error handling for this run.
	Options Options `yaml:"options,omitempty"`

	// Steps is the interaction flow, executed in order.
	Steps []Step `yaml:"steps"`
}

// Options mirrors the simulator's run-wide switches.
type Options struct {
	Debug                   bool `yaml:"debug,omitempty"`
	AbortOnFirstError       bool `yaml:"abort_on_first_error,omitempty"`
	ErrorOnUnconsumedReport bool `yaml:"error_on_unconsumed_report,omitempty"`
}

// Step is one action in the flow. Exactly one field must be set; which
// one decides the action.
type Step struct {
	Press    *KeyRef       `yaml:"press,omitempty"`
	Release  *KeyRef       `yaml:"release,omitempty"`
	Tap      *KeyRef       `yaml:"tap,omitempty"`
	MultiTap *MultiTapStep `yaml:"multi_tap,omitempty"`

	Cycles      *CyclesStep      `yaml:"cycles,omitempty"`
	AdvanceTime *AdvanceTimeStep `yaml:"advance_time,omitempty"`

	// ExpectKeyboardReport queues a one-shot keyboard report assertion
	// and runs one cycle that must consume it.
	ExpectKeyboardReport *KeyboardExpect `yaml:"expect_keyboard_report,omitempty"`

	// PermanentKeyboardReport installs a standing keyboard report
	// assertion checked against every subsequent keyboard report.
	PermanentKeyboardReport *KeyboardExpect `yaml:"permanent_keyboard_report,omitempty"`

	// ExpectCycle immediately checks cycle-level state.
	ExpectCycle *CycleExpect `yaml:"expect_cycle,omitempty"`

	ClearKeys           *Empty `yaml:"clear_keys,omitempty"`
	AssertNothingQueued *Empty `yaml:"assert_nothing_queued,omitempty"`
}

// KeyRef addresses one key by matrix coordinate.
type KeyRef struct {
	Row uint8 `yaml:"row"`
	Col uint8 `yaml:"col"`
}

// MultiTapStep taps a key repeatedly.
type MultiTapStep struct {
	Key            KeyRef `yaml:"key"`
	Count          int    `yaml:"count"`
	IntervalCycles int    `yaml:"interval_cycles,omitempty"`
}

// CyclesStep runs scan cycles. Count <= 0 runs the default scan count.
type CyclesStep struct {
	Count int `yaml:"count,omitempty"`
}

// AdvanceTimeStep skips simulated time. Exactly one of Millis (relative)
// or To (absolute) must be set.
type AdvanceTimeStep struct {
	Millis *int64 `yaml:"ms,omitempty"`
	To     *int64 `yaml:"to,omitempty"`
}

// KeyboardExpect describes a keyboard report predicate. All set fields
// must hold for the report to pass.
type KeyboardExpect struct {
	AnyKeycodeActive *bool   `yaml:"any_keycode_active,omitempty"`
	KeycodesActive   []uint8 `yaml:"keycodes_active,omitempty"`
	Empty            *bool   `yaml:"empty,omitempty"`
	NthInCycle       *int    `yaml:"nth_in_cycle,omitempty"`
}

// CycleExpect describes cycle-level state checks evaluated immediately.
type CycleExpect struct {
	CycleID    *int   `yaml:"cycle_id,omitempty"`
	TimeMillis *int64 `yaml:"time_ms,omitempty"`
}

// Empty marks flag-style steps that carry no arguments.
type Empty struct{}

// LoadScenario reads and parses a scenario YAML file. Returns an error
// if the file doesn't exist, is malformed, contains unknown fields
// (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation
// (catches typos like "step:" vs "steps:").
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.CycleDurationMillis <= 0 {
		return fmt.Errorf("cycle_duration_ms must be positive")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks that exactly one action is set and its arguments
// make sense.
func validateStep(index int, step *Step) error {
	set := 0
	for _, present := range []bool{
		step.Press != nil,
		step.Release != nil,
		step.Tap != nil,
		step.MultiTap != nil,
		step.Cycles != nil,
		step.AdvanceTime != nil,
		step.ExpectKeyboardReport != nil,
		step.PermanentKeyboardReport != nil,
		step.ExpectCycle != nil,
		step.ClearKeys != nil,
		step.AssertNothingQueued != nil,
	} {
		if present {
			set++
		}
	}
	if set == 0 {
		return fmt.Errorf("steps[%d]: no action set", index)
	}
	if set > 1 {
		return fmt.Errorf("steps[%d]: exactly one action per step, got %d", index, set)
	}

	if mt := step.MultiTap; mt != nil {
		if mt.Count < 1 {
			return fmt.Errorf("steps[%d].multi_tap: count must be at least 1", index)
		}
		if mt.IntervalCycles < 0 {
			return fmt.Errorf("steps[%d].multi_tap: interval_cycles must be non-negative", index)
		}
	}

	if at := step.AdvanceTime; at != nil {
		if (at.Millis == nil) == (at.To == nil) {
			return fmt.Errorf("steps[%d].advance_time: exactly one of ms or to is required", index)
		}
	}

	if ke := step.ExpectKeyboardReport; ke != nil {
		if err := validateKeyboardExpect(index, "expect_keyboard_report", ke); err != nil {
			return err
		}
	}
	if ke := step.PermanentKeyboardReport; ke != nil {
		if err := validateKeyboardExpect(index, "permanent_keyboard_report", ke); err != nil {
			return err
		}
	}

	if ce := step.ExpectCycle; ce != nil {
		if ce.CycleID == nil && ce.TimeMillis == nil {
			return fmt.Errorf("steps[%d].expect_cycle: at least one of cycle_id or time_ms is required", index)
		}
	}

	return nil
}

func validateKeyboardExpect(index int, field string, ke *KeyboardExpect) error {
	if ke.AnyKeycodeActive == nil && len(ke.KeycodesActive) == 0 && ke.Empty == nil && ke.NthInCycle == nil {
		return fmt.Errorf("steps[%d].%s: at least one predicate field is required", index, field)
	}
	return nil
}
