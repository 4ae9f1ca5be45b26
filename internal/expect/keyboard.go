// Package expect provides the built-in assertion library: predicates
// over keyboard, mouse, and cycle state that scripts queue on the
// simulator. Every constructor returns an assertion.Assertion, so
// predicates compose freely with assertion.Group, AnyOf, and Not.
package expect

import (
	"fmt"

	"github.com/roach88/keysim/internal/assertion"
	"github.com/roach88/keysim/internal/report"
)

// AnyKeycodeActive passes when the current keyboard report has at least
// one active keycode.
func AnyKeycodeActive() assertion.Assertion {
	return &anyKeycodeActive{}
}

// KeycodeActive passes when the given keycode is active in the current
// keyboard report.
func KeycodeActive(keycode uint8) assertion.Assertion {
	return &keycodeActive{keycode: keycode}
}

// KeycodesActive passes when every given keycode is active in the
// current keyboard report.
func KeycodesActive(keycodes ...uint8) assertion.Assertion {
	return &keycodesActive{keycodes: keycodes}
}

// ModifierActive passes when every bit of the given modifier mask is set
// in the current keyboard report.
func ModifierActive(mask byte) assertion.Assertion {
	return &modifierActive{mask: mask}
}

// KeyboardReportEmpty passes when the current keyboard report has no
// active keycode and no active modifier.
func KeyboardReportEmpty() assertion.Assertion {
	return &keyboardReportEmpty{}
}

type anyKeycodeActive struct {
	assertion.Binding
}

func (a *anyKeycodeActive) Describe(indent string) string {
	return indent + "any keycode active"
}

func (a *anyKeycodeActive) DescribeState(indent string) string {
	return describeKeyboardState(indent, a.Environment())
}

func (a *anyKeycodeActive) Evaluate() bool {
	r := keyboardReport(a.Environment())
	return r != nil && r.AnyKeycodeActive()
}

type keycodeActive struct {
	assertion.Binding
	keycode uint8
}

func (a *keycodeActive) Describe(indent string) string {
	return fmt.Sprintf("%skeycode %d active", indent, a.keycode)
}

func (a *keycodeActive) DescribeState(indent string) string {
	return describeKeyboardState(indent, a.Environment())
}

func (a *keycodeActive) Evaluate() bool {
	r := keyboardReport(a.Environment())
	return r != nil && r.KeycodeActive(a.keycode)
}

type keycodesActive struct {
	assertion.Binding
	keycodes []uint8
}

func (a *keycodesActive) Describe(indent string) string {
	return fmt.Sprintf("%skeycodes %v active", indent, a.keycodes)
}

func (a *keycodesActive) DescribeState(indent string) string {
	return describeKeyboardState(indent, a.Environment())
}

func (a *keycodesActive) Evaluate() bool {
	r := keyboardReport(a.Environment())
	if r == nil {
		return false
	}
	for _, k := range a.keycodes {
		if !r.KeycodeActive(k) {
			return false
		}
	}
	return true
}

type modifierActive struct {
	assertion.Binding
	mask byte
}

func (a *modifierActive) Describe(indent string) string {
	return fmt.Sprintf("%smodifier mask 0x%02x active", indent, a.mask)
}

func (a *modifierActive) DescribeState(indent string) string {
	return describeKeyboardState(indent, a.Environment())
}

func (a *modifierActive) Evaluate() bool {
	r := keyboardReport(a.Environment())
	return r != nil && r.ModifierActive(a.mask)
}

type keyboardReportEmpty struct {
	assertion.Binding
}

func (a *keyboardReportEmpty) Describe(indent string) string {
	return indent + "keyboard report empty"
}

func (a *keyboardReportEmpty) DescribeState(indent string) string {
	return describeKeyboardState(indent, a.Environment())
}

func (a *keyboardReportEmpty) Evaluate() bool {
	r := keyboardReport(a.Environment())
	return r != nil && r.Empty()
}

// keyboardReport fetches the current keyboard report, or nil if none has
// been emitted yet.
func keyboardReport(env assertion.Environment) *report.KeyboardReport {
	r, _ := env.CurrentReport(report.Keyboard).(*report.KeyboardReport)
	return r
}

func describeKeyboardState(indent string, env assertion.Environment) string {
	r := keyboardReport(env)
	if r == nil {
		return indent + "no keyboard report emitted yet"
	}
	return indent + r.Summary()
}
