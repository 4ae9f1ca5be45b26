package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorf_CountsAndTalliesByCode(t *testing.T) {
	var buf bytes.Buffer
	s := New(nil, WithOutput(&buf))

	s.Errorf(ErrCodeConditionFailed, "first")
	s.Errorf(ErrCodeConditionFailed, "second")
	s.Errorf(ErrCodeCallerMisuse, "third")

	assert.Equal(t, 3, s.ErrorCount())
	assert.Equal(t, 2, s.ErrorCountByCode(ErrCodeConditionFailed))
	assert.Equal(t, 1, s.ErrorCountByCode(ErrCodeCallerMisuse))
	assert.Equal(t, []string{"first", "second", "third"}, s.Errors())
	assert.Contains(t, buf.String(), "!!! CONDITION_FAILED: first")
}

func TestErrorf_NeverUnwinds(t *testing.T) {
	s := New(nil, WithOutput(nil))

	// Errors are a counter plus a log line; control flow continues.
	assert.NotPanics(t, func() {
		s.Errorf(ErrCodeAssertionFailed, "failure")
	})
	assert.Equal(t, StateIdle, s.State())
}

func TestLogf_MultiLineContinuationIndent(t *testing.T) {
	var buf bytes.Buffer
	s := New(nil, WithOutput(&buf))

	s.Errorf(ErrCodeAssertionFailed, "line one\nline two")

	out := buf.String()
	assert.Contains(t, out, "!!! ASSERTION_FAILED: line one\n")
	// Continuation lines are indented to align under the message.
	assert.Contains(t, out, "                      line two\n")
}

func TestSetOutput_NilSilences(t *testing.T) {
	s := New(nil)

	s.SetOutput(nil)
	s.Errorf(ErrCodeConditionFailed, "silenced")

	// Silenced output still counts errors.
	assert.Equal(t, 1, s.ErrorCount())
}

func TestDebugf_OnlyWithDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	s := New(nil, WithOutput(&buf))

	s.Debugf("hidden")
	assert.Empty(t, buf.String())

	s.SetDebug(true)
	s.Debugf("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestHeaderf_FramesWithRules(t *testing.T) {
	var buf bytes.Buffer
	s := New(nil, WithOutput(&buf))

	s.Headerf("banner")

	out := buf.String()
	assert.Contains(t, out, headerRule)
	assert.Contains(t, out, "# banner")
}
