package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keysim/internal/report"
	"github.com/roach88/keysim/internal/sim"
)

func collect(d *Loopback, matrix *sim.KeyMatrix) []report.Report {
	var out []report.Report
	d.AdvanceOneCycle(matrix, func(r report.Report) { out = append(out, r) })
	return out
}

func TestMatrixKeymap(t *testing.T) {
	keymap := MatrixKeymap(16)

	// (0,0) maps to HID keycode 4 ('A'), row-major from there.
	assert.Equal(t, uint8(4), keymap(0, 0))
	assert.Equal(t, uint8(5), keymap(0, 1))
	assert.Equal(t, uint8(20), keymap(1, 0))
}

func TestLoopback_EmitsOnKeyStateChange(t *testing.T) {
	d := NewLoopback(nil)
	matrix := sim.NewKeyMatrix()

	matrix.Press(0, 0)
	reports := collect(d, matrix)

	require.Len(t, reports, 1)
	kb, ok := reports[0].(*report.KeyboardReport)
	require.True(t, ok)
	assert.Equal(t, []uint8{4}, kb.ActiveKeycodes())
}

func TestLoopback_QuietWhileStateUnchanged(t *testing.T) {
	d := NewLoopback(nil)
	matrix := sim.NewKeyMatrix()
	matrix.Press(0, 0)

	collect(d, matrix)
	reports := collect(d, matrix)

	assert.Empty(t, reports)
}

func TestLoopback_EmitsEmptyReportOnRelease(t *testing.T) {
	d := NewLoopback(nil)
	matrix := sim.NewKeyMatrix()
	matrix.Press(0, 0)
	collect(d, matrix)

	matrix.Release(0, 0)
	reports := collect(d, matrix)

	require.Len(t, reports, 1)
	kb, ok := reports[0].(*report.KeyboardReport)
	require.True(t, ok)
	assert.True(t, kb.Empty())
}

func TestLoopback_IdleMatrixEmitsNothing(t *testing.T) {
	d := NewLoopback(nil)
	matrix := sim.NewKeyMatrix()

	assert.Empty(t, collect(d, matrix))
	assert.Empty(t, collect(d, matrix))
}

func TestLoopback_MultipleKeysSorted(t *testing.T) {
	d := NewLoopback(nil)
	matrix := sim.NewKeyMatrix()
	matrix.Press(1, 0)
	matrix.Press(0, 1)

	reports := collect(d, matrix)

	require.Len(t, reports, 1)
	kb := reports[0].(*report.KeyboardReport)
	assert.Equal(t, []uint8{5, 20}, kb.ActiveKeycodes())
}

func TestLoopback_CustomKeymap(t *testing.T) {
	d := NewLoopback(func(row, col uint8) uint8 { return 100 + col })
	matrix := sim.NewKeyMatrix()
	matrix.Press(0, 2)

	reports := collect(d, matrix)

	require.Len(t, reports, 1)
	kb := reports[0].(*report.KeyboardReport)
	assert.Equal(t, []uint8{102}, kb.ActiveKeycodes())
}
