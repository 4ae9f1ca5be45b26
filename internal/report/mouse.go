package report

import "fmt"

// MouseReport is a relative pointer snapshot: movement deltas, button
// state, and wheel movement since the previous report.
type MouseReport struct {
	dx, dy  int16
	buttons uint8
	wheel   int8
}

// NewMouseReport builds a relative pointer report.
func NewMouseReport(dx, dy int16, buttons uint8, wheel int8) *MouseReport {
	return &MouseReport{dx: dx, dy: dy, buttons: buttons, wheel: wheel}
}

// Kind returns report.Mouse.
func (r *MouseReport) Kind() Kind { return Mouse }

// Delta returns the pointer movement since the previous report.
func (r *MouseReport) Delta() (dx, dy int16) { return r.dx, r.dy }

// Moved reports whether the pointer moved at all.
func (r *MouseReport) Moved() bool { return r.dx != 0 || r.dy != 0 }

// Buttons returns the button bitmask (bit 0 = left, bit 1 = right, ...).
func (r *MouseReport) Buttons() uint8 { return r.buttons }

// ButtonActive reports whether every bit of the given mask is set.
func (r *MouseReport) ButtonActive(mask uint8) bool {
	return mask != 0 && r.buttons&mask == mask
}

// AnyButtonActive reports whether any button is held.
func (r *MouseReport) AnyButtonActive() bool { return r.buttons != 0 }

// Wheel returns the wheel movement since the previous report.
func (r *MouseReport) Wheel() int8 { return r.wheel }

// Summary implements Report.
func (r *MouseReport) Summary() string {
	return fmt.Sprintf("mouse: dx=%d dy=%d buttons=0x%02x wheel=%d", r.dx, r.dy, r.buttons, r.wheel)
}

// AbsoluteMouseReport is an absolute pointer snapshot: position on a
// normalized 16-bit surface plus button state.
type AbsoluteMouseReport struct {
	x, y    uint16
	buttons uint8
}

// NewAbsoluteMouseReport builds an absolute pointer report.
func NewAbsoluteMouseReport(x, y uint16, buttons uint8) *AbsoluteMouseReport {
	return &AbsoluteMouseReport{x: x, y: y, buttons: buttons}
}

// Kind returns report.AbsoluteMouse.
func (r *AbsoluteMouseReport) Kind() Kind { return AbsoluteMouse }

// Position returns the absolute pointer position.
func (r *AbsoluteMouseReport) Position() (x, y uint16) { return r.x, r.y }

// Buttons returns the button bitmask.
func (r *AbsoluteMouseReport) Buttons() uint8 { return r.buttons }

// ButtonActive reports whether every bit of the given mask is set.
func (r *AbsoluteMouseReport) ButtonActive(mask uint8) bool {
	return mask != 0 && r.buttons&mask == mask
}

// Summary implements Report.
func (r *AbsoluteMouseReport) Summary() string {
	return fmt.Sprintf("absolute mouse: x=%d y=%d buttons=0x%02x", r.x, r.y, r.buttons)
}
