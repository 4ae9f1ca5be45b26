package expect

import (
	"fmt"

	"github.com/roach88/keysim/internal/assertion"
)

// ReportNthInCycle passes when the report currently being dispatched is
// the n-th report of its cycle (first report is 1).
func ReportNthInCycle(n int) assertion.Assertion {
	return &reportNthInCycle{n: n}
}

// CycleIs passes when the current cycle id equals n.
func CycleIs(n int) assertion.Assertion {
	return &cycleIs{n: n}
}

// TimeIs passes when the current simulated time equals ms milliseconds.
func TimeIs(ms int64) assertion.Assertion {
	return &timeIs{ms: ms}
}

// Func adapts an ad-hoc predicate into an assertion. The description is
// used verbatim in logs, so phrase it as the condition being checked.
func Func(description string, fn func(assertion.Environment) bool) assertion.Assertion {
	return &funcAssertion{description: description, fn: fn}
}

type reportNthInCycle struct {
	assertion.Binding
	n int
}

func (a *reportNthInCycle) Describe(indent string) string {
	return fmt.Sprintf("%sreport is %d. report in cycle", indent, a.n)
}

func (a *reportNthInCycle) DescribeState(indent string) string {
	return fmt.Sprintf("%sreport is %d. report in cycle", indent, a.Environment().ReportsInCycle())
}

func (a *reportNthInCycle) Evaluate() bool {
	return a.Environment().ReportsInCycle() == a.n
}

type cycleIs struct {
	assertion.Binding
	n int
}

func (a *cycleIs) Describe(indent string) string {
	return fmt.Sprintf("%scycle id is %d", indent, a.n)
}

func (a *cycleIs) DescribeState(indent string) string {
	return fmt.Sprintf("%scycle id is %d", indent, a.Environment().CycleID())
}

func (a *cycleIs) Evaluate() bool {
	return a.Environment().CycleID() == a.n
}

type timeIs struct {
	assertion.Binding
	ms int64
}

func (a *timeIs) Describe(indent string) string {
	return fmt.Sprintf("%stime is %d ms", indent, a.ms)
}

func (a *timeIs) DescribeState(indent string) string {
	return fmt.Sprintf("%stime is %d ms", indent, a.Environment().TimeMillis())
}

func (a *timeIs) Evaluate() bool {
	return a.Environment().TimeMillis() == a.ms
}

type funcAssertion struct {
	assertion.Binding
	description string
	fn          func(assertion.Environment) bool
}

func (a *funcAssertion) Describe(indent string) string {
	return indent + a.description
}

func (a *funcAssertion) DescribeState(indent string) string {
	return fmt.Sprintf("%scycle %d, %d ms, %d reports in cycle",
		indent,
		a.Environment().CycleID(),
		a.Environment().TimeMillis(),
		a.Environment().ReportsInCycle(),
	)
}

func (a *funcAssertion) Evaluate() bool {
	return a.fn(a.Environment())
}
