package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenarioYAML = `name: tap_emits_report
description: tapping a key emits a keyboard report with its keycode
cycle_duration_ms: 5
steps:
  - tap: {row: 0, col: 0}
  - cycles: {count: 2}
`

func TestParseScenario_Valid(t *testing.T) {
	sc, err := ParseScenario([]byte(validScenarioYAML))

	require.NoError(t, err)
	assert.Equal(t, "tap_emits_report", sc.Name)
	assert.Equal(t, int64(5), sc.CycleDurationMillis)
	require.Len(t, sc.Steps, 2)
	require.NotNil(t, sc.Steps[0].Tap)
	assert.Equal(t, uint8(0), sc.Steps[0].Tap.Row)
	require.NotNil(t, sc.Steps[1].Cycles)
	assert.Equal(t, 2, sc.Steps[1].Cycles.Count)
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	yaml := `name: typo
description: has a typo'd field
cycle_duration_ms: 5
step:
  - tap: {row: 0, col: 0}
`
	_, err := ParseScenario([]byte(yaml))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_RequiresName(t *testing.T) {
	yaml := `description: nameless
cycle_duration_ms: 5
steps:
  - tap: {row: 0, col: 0}
`
	_, err := ParseScenario([]byte(yaml))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestParseScenario_RequiresPositiveCycleDuration(t *testing.T) {
	yaml := `name: no_duration
description: missing duration
steps:
  - tap: {row: 0, col: 0}
`
	_, err := ParseScenario([]byte(yaml))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle_duration_ms must be positive")
}

func TestParseScenario_RequiresSteps(t *testing.T) {
	yaml := `name: empty
description: no steps
cycle_duration_ms: 5
steps: []
`
	_, err := ParseScenario([]byte(yaml))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps list is required")
}

func TestParseScenario_RejectsMultipleActionsPerStep(t *testing.T) {
	yaml := `name: double_action
description: one step carries two actions
cycle_duration_ms: 5
steps:
  - press: {row: 0, col: 0}
    release: {row: 0, col: 0}
`
	_, err := ParseScenario([]byte(yaml))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one action per step")
}

func TestParseScenario_RejectsEmptyStep(t *testing.T) {
	yaml := `name: empty_step
description: a step with no action
cycle_duration_ms: 5
steps:
  - {}
`
	_, err := ParseScenario([]byte(yaml))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no action set")
}

func TestParseScenario_MultiTapValidation(t *testing.T) {
	yaml := `name: bad_multi_tap
description: multi tap with zero count
cycle_duration_ms: 5
steps:
  - multi_tap:
      key: {row: 0, col: 0}
      count: 0
`
	_, err := ParseScenario([]byte(yaml))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "count must be at least 1")
}

func TestParseScenario_AdvanceTimeNeedsExactlyOneField(t *testing.T) {
	for _, yaml := range []string{
		`name: both
description: both ms and to set
cycle_duration_ms: 5
steps:
  - advance_time: {ms: 10, to: 20}
`,
		`name: neither
description: neither ms nor to set
cycle_duration_ms: 5
steps:
  - advance_time: {}
`,
	} {
		_, err := ParseScenario([]byte(yaml))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of ms or to")
	}
}

func TestParseScenario_KeyboardExpectNeedsAPredicate(t *testing.T) {
	yaml := `name: empty_expect
description: expectation with no predicate fields
cycle_duration_ms: 5
steps:
  - expect_keyboard_report: {}
`
	_, err := ParseScenario([]byte(yaml))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one predicate field")
}

func TestParseScenario_CycleExpectNeedsAField(t *testing.T) {
	yaml := `name: empty_cycle_expect
description: cycle expectation with nothing to check
cycle_duration_ms: 5
steps:
  - expect_cycle: {}
`
	_, err := ParseScenario([]byte(yaml))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one of cycle_id or time_ms")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validScenarioYAML), 0o644))

	sc, err := LoadScenario(path)

	require.NoError(t, err)
	assert.Equal(t, "tap_emits_report", sc.Name)
}
