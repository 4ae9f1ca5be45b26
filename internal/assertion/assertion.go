// Package assertion defines the predicate capability contract the
// simulator evaluates against device reports, plus the queue and bundle
// machinery that gives queued (one-shot) and permanent (standing)
// assertions their ordering and consumption guarantees.
//
// Assertions are an open interface, not a closed enum: new predicate
// kinds can be added by any package without engine changes. Composites
// (Group, AnyOf, Not) aggregate child assertions through the same
// interface.
package assertion

import "github.com/roach88/keysim/internal/report"

// Environment is the read-only view of simulator state an assertion may
// query during evaluation. The simulator implements it; assertions hold
// a non-owning back-reference obtained through Bind.
type Environment interface {
	// CurrentReport returns the most recent report of the given kind,
	// or nil if none has been emitted yet.
	CurrentReport(kind report.Kind) report.Report

	// CycleID returns the id of the current cycle (first cycle is 0).
	CycleID() int

	// TimeMillis returns the current simulated time in milliseconds.
	TimeMillis() int64

	// ReportsInCycle returns how many reports the device has emitted in
	// the current cycle so far.
	ReportsInCycle() int

	// TotalReports returns how many reports the device has emitted since
	// the run started.
	TotalReports() int
}

// Assertion is a predicate plus self-description, bound lazily to the
// simulator that evaluates it.
type Assertion interface {
	// Bind attaches the environment the assertion evaluates against.
	// The first binding wins; later calls are no-ops. The simulator
	// binds every assertion when it is evaluated, so callers rarely
	// call Bind themselves.
	Bind(env Environment)

	// Describe returns a static description of what is being checked,
	// each line prefixed with indent.
	Describe(indent string) string

	// DescribeState returns a description of the currently observed
	// value, each line prefixed with indent.
	DescribeState(indent string) string

	// Evaluate applies the predicate against the bound environment.
	// Evaluating an unbound assertion panics: it is a programming
	// error, not a test failure.
	Evaluate() bool
}

// Binding supplies the lazy environment attachment shared by all
// assertion implementations. Embed it and call Environment from
// Evaluate and DescribeState.
type Binding struct {
	env Environment
}

// Bind implements the binding half of Assertion. The first environment
// sticks; rebinding to a second simulator is silently ignored.
func (b *Binding) Bind(env Environment) {
	if b.env == nil {
		b.env = env
	}
}

// Bound reports whether an environment has been attached.
func (b *Binding) Bound() bool { return b.env != nil }

// Environment returns the bound environment. It panics if the assertion
// was never bound; evaluating an unbound assertion is a programming
// error that must fail fast rather than produce a silent false result.
func (b *Binding) Environment() Environment {
	if b.env == nil {
		panic("assertion: evaluated before being bound to a simulator")
	}
	return b.env
}
