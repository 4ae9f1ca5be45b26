package sim

// Test brackets a logical test within a run. It captures the error
// counter at creation; End reports the errors introduced during the
// test and runs the nothing-queued check so forgotten assertions are
// caught at the test boundary.
type Test struct {
	sim           *Simulator
	name          string
	errorsAtStart int
	ended         bool
}

// NewTest starts a named test scope and writes its banner.
func (s *Simulator) NewTest(name string) *Test {
	s.Headerf("test: %s", name)
	return &Test{
		sim:           s,
		name:          name,
		errorsAtStart: s.errorCount,
	}
}

// End closes the test scope. It is idempotent; call it via defer.
func (t *Test) End() {
	if t.ended {
		return
	}
	t.ended = true

	t.sim.AssertNothingQueued()

	delta := t.sim.errorCount - t.errorsAtStart
	if delta > 0 {
		t.sim.Logf("test %q finished with %d error(s)", t.name, delta)
		return
	}
	t.sim.Logf("test %q finished without errors", t.name)
}

// Errors returns how many errors have been recorded since the test
// scope began.
func (t *Test) Errors() int {
	return t.sim.errorCount - t.errorsAtStart
}
