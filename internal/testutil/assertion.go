package testutil

import (
	"fmt"

	"github.com/roach88/keysim/internal/assertion"
)

// StubAssertion is a controllable assertion for tests: it returns a
// fixed verdict and counts how often it was evaluated.
type StubAssertion struct {
	assertion.Binding

	// Name distinguishes stubs in descriptions and failure output.
	Name string

	// Result is the verdict every evaluation returns.
	Result bool

	// Evaluations counts calls to Evaluate.
	Evaluations int
}

// Pass creates a stub that always passes.
func Pass(name string) *StubAssertion {
	return &StubAssertion{Name: name, Result: true}
}

// Fail creates a stub that always fails.
func Fail(name string) *StubAssertion {
	return &StubAssertion{Name: name, Result: false}
}

// Describe implements assertion.Assertion.
func (a *StubAssertion) Describe(indent string) string {
	return fmt.Sprintf("%sstub assertion %q", indent, a.Name)
}

// DescribeState implements assertion.Assertion.
func (a *StubAssertion) DescribeState(indent string) string {
	return fmt.Sprintf("%sevaluated %d time(s)", indent, a.Evaluations)
}

// Evaluate implements assertion.Assertion.
func (a *StubAssertion) Evaluate() bool {
	a.Evaluations++
	return a.Result
}
