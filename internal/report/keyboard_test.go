package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyboardReport_SortsAndDeduplicates(t *testing.T) {
	r := NewKeyboardReport(0, 40, 4, 40, 5)

	assert.Equal(t, []uint8{4, 5, 40}, r.ActiveKeycodes())
}

func TestNewKeyboardReport_DropsZeroKeycode(t *testing.T) {
	r := NewKeyboardReport(0, 0, 4, 0)

	assert.Equal(t, []uint8{4}, r.ActiveKeycodes())
}

func TestKeyboardReport_KeycodeActive(t *testing.T) {
	r := NewKeyboardReport(0, 4, 5, 40)

	assert.True(t, r.KeycodeActive(4))
	assert.True(t, r.KeycodeActive(40))
	assert.False(t, r.KeycodeActive(6))
	assert.True(t, r.AnyKeycodeActive())
}

func TestKeyboardReport_ModifierActive(t *testing.T) {
	r := NewKeyboardReport(0b0000_0011)

	assert.True(t, r.AnyModifierActive())
	assert.True(t, r.ModifierActive(0b01))
	assert.True(t, r.ModifierActive(0b11))
	assert.False(t, r.ModifierActive(0b100))
	// Partial overlap is not enough, every bit of the mask must be set.
	assert.False(t, r.ModifierActive(0b101))
	// A zero mask never matches.
	assert.False(t, r.ModifierActive(0))
}

func TestKeyboardReport_Empty(t *testing.T) {
	assert.True(t, NewKeyboardReport(0).Empty())
	assert.False(t, NewKeyboardReport(0, 4).Empty())
	assert.False(t, NewKeyboardReport(1).Empty())
}

func TestKeyboardReport_Summary(t *testing.T) {
	assert.Equal(t, "keyboard: empty", NewKeyboardReport(0).Summary())
	assert.Equal(t, "keyboard: keycodes=[4 5] modifiers=0x02", NewKeyboardReport(2, 5, 4).Summary())
}

func TestKeyboardReport_ActiveKeycodesReturnsCopy(t *testing.T) {
	r := NewKeyboardReport(0, 4, 5)

	got := r.ActiveKeycodes()
	got[0] = 99

	assert.Equal(t, []uint8{4, 5}, r.ActiveKeycodes())
}

func TestKeyboardReport_Kind(t *testing.T) {
	assert.Equal(t, Keyboard, NewKeyboardReport(0).Kind())
}
