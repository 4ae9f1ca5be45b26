package report

import (
	"fmt"
	"sort"
)

// KeyboardReport is the key-state snapshot the device emits whenever the
// set of active keycodes or modifiers changes.
//
// Keycodes follow HID usage IDs (0x04 = 'A'). The modifier byte is the
// HID modifier bitmask (bit 0 = left control, bit 1 = left shift, ...).
type KeyboardReport struct {
	modifiers byte
	keycodes  []uint8
}

// NewKeyboardReport builds a keyboard report from a modifier bitmask and
// a set of active keycodes. The keycode slice is copied, de-duplicated,
// and sorted so reports compare and print deterministically.
func NewKeyboardReport(modifiers byte, keycodes ...uint8) *KeyboardReport {
	seen := make(map[uint8]bool, len(keycodes))
	active := make([]uint8, 0, len(keycodes))
	for _, k := range keycodes {
		if k == 0 || seen[k] {
			continue
		}
		seen[k] = true
		active = append(active, k)
	}
	sort.Slice(active, func(i, j int) bool { return active[i] < active[j] })

	return &KeyboardReport{
		modifiers: modifiers,
		keycodes:  active,
	}
}

// Kind returns report.Keyboard.
func (r *KeyboardReport) Kind() Kind { return Keyboard }

// Modifiers returns the HID modifier bitmask.
func (r *KeyboardReport) Modifiers() byte { return r.modifiers }

// ActiveKeycodes returns the sorted active keycodes. The returned slice
// is a copy; mutating it does not affect the report.
func (r *KeyboardReport) ActiveKeycodes() []uint8 {
	out := make([]uint8, len(r.keycodes))
	copy(out, r.keycodes)
	return out
}

// AnyKeycodeActive reports whether at least one non-modifier keycode is
// active.
func (r *KeyboardReport) AnyKeycodeActive() bool { return len(r.keycodes) > 0 }

// KeycodeActive reports whether the given keycode is active.
func (r *KeyboardReport) KeycodeActive(keycode uint8) bool {
	i := sort.Search(len(r.keycodes), func(i int) bool { return r.keycodes[i] >= keycode })
	return i < len(r.keycodes) && r.keycodes[i] == keycode
}

// AnyModifierActive reports whether any modifier bit is set.
func (r *KeyboardReport) AnyModifierActive() bool { return r.modifiers != 0 }

// ModifierActive reports whether every bit of the given mask is set.
func (r *KeyboardReport) ModifierActive(mask byte) bool {
	return mask != 0 && r.modifiers&mask == mask
}

// Empty reports whether no keycode and no modifier is active.
func (r *KeyboardReport) Empty() bool {
	return len(r.keycodes) == 0 && r.modifiers == 0
}

// Summary implements Report.
func (r *KeyboardReport) Summary() string {
	if r.Empty() {
		return "keyboard: empty"
	}
	return fmt.Sprintf("keyboard: keycodes=%v modifiers=0x%02x", r.keycodes, r.modifiers)
}
