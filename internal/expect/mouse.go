package expect

import (
	"fmt"

	"github.com/roach88/keysim/internal/assertion"
	"github.com/roach88/keysim/internal/report"
)

// MouseMovedBy passes when the current mouse report carries exactly the
// given movement deltas.
func MouseMovedBy(dx, dy int16) assertion.Assertion {
	return &mouseMovedBy{dx: dx, dy: dy}
}

// MouseButtonActive passes when every bit of the given button mask is
// held in the current mouse report.
func MouseButtonActive(mask uint8) assertion.Assertion {
	return &mouseButtonActive{mask: mask}
}

type mouseMovedBy struct {
	assertion.Binding
	dx, dy int16
}

func (a *mouseMovedBy) Describe(indent string) string {
	return fmt.Sprintf("%smouse moved by dx=%d dy=%d", indent, a.dx, a.dy)
}

func (a *mouseMovedBy) DescribeState(indent string) string {
	return describeMouseState(indent, a.Environment())
}

func (a *mouseMovedBy) Evaluate() bool {
	r := mouseReport(a.Environment())
	if r == nil {
		return false
	}
	dx, dy := r.Delta()
	return dx == a.dx && dy == a.dy
}

type mouseButtonActive struct {
	assertion.Binding
	mask uint8
}

func (a *mouseButtonActive) Describe(indent string) string {
	return fmt.Sprintf("%smouse button mask 0x%02x active", indent, a.mask)
}

func (a *mouseButtonActive) DescribeState(indent string) string {
	return describeMouseState(indent, a.Environment())
}

func (a *mouseButtonActive) Evaluate() bool {
	r := mouseReport(a.Environment())
	return r != nil && r.ButtonActive(a.mask)
}

func mouseReport(env assertion.Environment) *report.MouseReport {
	r, _ := env.CurrentReport(report.Mouse).(*report.MouseReport)
	return r
}

func describeMouseState(indent string, env assertion.Environment) string {
	r := mouseReport(env)
	if r == nil {
		return indent + "no mouse report emitted yet"
	}
	return indent + r.Summary()
}
