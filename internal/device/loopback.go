// Package device provides reference Device implementations for driving
// the simulator without real firmware.
package device

import (
	"github.com/roach88/keysim/internal/report"
	"github.com/roach88/keysim/internal/sim"
)

// Keymap translates a matrix coordinate into a HID keycode.
type Keymap func(row, col uint8) uint8

// MatrixKeymap returns the canonical row-major keymap for a matrix with
// the given column count: keycode 4 (HID 'A') onward, left to right,
// top to bottom.
func MatrixKeymap(cols uint8) Keymap {
	return func(row, col uint8) uint8 {
		return 4 + row*cols + col
	}
}

// Loopback is a minimal firmware stand-in: each cycle it scans the key
// matrix and emits one keyboard report whenever the active keycode set
// changed since the previous cycle. Idle cycles emit nothing, matching
// how report-on-change firmware behaves.
type Loopback struct {
	keymap Keymap
	last   []uint8
}

// NewLoopback creates a loopback device using the given keymap. A nil
// keymap defaults to MatrixKeymap(16).
func NewLoopback(keymap Keymap) *Loopback {
	if keymap == nil {
		keymap = MatrixKeymap(16)
	}
	return &Loopback{keymap: keymap}
}

// AdvanceOneCycle implements sim.Device.
func (d *Loopback) AdvanceOneCycle(matrix *sim.KeyMatrix, emit func(report.Report)) {
	pressed := matrix.Pressed()
	keycodes := make([]uint8, 0, len(pressed))
	for _, k := range pressed {
		keycodes = append(keycodes, d.keymap(k.Row, k.Col))
	}

	if equalKeycodes(keycodes, d.last) {
		return
	}
	d.last = keycodes
	emit(report.NewKeyboardReport(0, keycodes...))
}

func equalKeycodes(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
