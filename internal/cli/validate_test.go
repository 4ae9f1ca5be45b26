package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_ValidScenario(t *testing.T) {
	path := writeScenario(t, passingScenario)

	out, err := execute(t, "validate", path)

	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "tap")
}

func TestValidateCommand_InvalidScenario(t *testing.T) {
	path := writeScenario(t, `name: broken
description: missing steps
cycle_duration_ms: 5
steps: []
`)

	out, err := execute(t, "validate", path)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "error")
}

func TestValidateCommand_MixedResults(t *testing.T) {
	good := writeScenario(t, passingScenario)
	bad := filepath.Join(t.TempDir(), "missing.yaml")

	out, err := execute(t, "validate", good, bad)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 scenario(s) invalid")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "error")
}
