package sim

import (
	"io"
	"os"

	"github.com/roach88/keysim/internal/assertion"
	"github.com/roach88/keysim/internal/report"
)

// RunState is the lifecycle state of one simulation run.
type RunState int

const (
	// StateIdle is the state before the first cycle.
	StateIdle RunState = iota
	// StateRunning means cycles are executing.
	StateRunning
	// StateAborted is terminal: an evaluation failed while
	// abort-on-first-error was enabled. No further cycle-driven
	// dispatch occurs.
	StateAborted
	// StateFinished is terminal: the caller ended the run.
	StateFinished
)

// String returns the lowercase state name.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateAborted:
		return "aborted"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// defaultScanCycles is the cycle count Cycles runs when the caller
// passes n <= 0.
const defaultScanCycles = 5

// Recorder receives every report the device emits, in emission order.
// The scenario runner uses it to build traces and persist them.
type Recorder interface {
	RecordReport(runID string, seq, cycle int, timeMillis int64, r report.Report)
}

// Option configures a Simulator at construction.
type Option func(*Simulator)

// WithCycleDuration sets the duration of one scan cycle in milliseconds.
// The duration must be configured (here or via SetCycleDuration) before
// the first cycle; cycling with a zero duration is a reported error.
func WithCycleDuration(ms int64) Option {
	return func(s *Simulator) { s.cycleDuration = ms }
}

// WithDebug enables verbose output.
func WithDebug(debug bool) Option {
	return func(s *Simulator) { s.debug = debug }
}

// WithAbortOnFirstError halts cycle-driven dispatch after the first
// failing evaluation.
func WithAbortOnFirstError(abort bool) Option {
	return func(s *Simulator) { s.abortOnFirstError = abort }
}

// WithErrorOnUnconsumedReport makes a report arriving with no queued
// assertion a reported error.
func WithErrorOnUnconsumedReport(flag bool) Option {
	return func(s *Simulator) { s.errorOnUnconsumedReport = flag }
}

// WithOutput sets the output sink for log, header, and error lines.
func WithOutput(w io.Writer) Option {
	return func(s *Simulator) { s.SetOutput(w) }
}

// WithRunIDGenerator sets the generator for the run ID stamp.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(s *Simulator) { s.runID = g.Generate() }
}

// WithRecorder attaches a report recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Simulator) { s.recorder = r }
}

// Simulator is the cycle-stepping engine. It owns one assertion bundle
// per report kind plus a cycle-scoped bundle pair, the pressed-key
// matrix, simulated time, and the run-wide error and pass/fail state.
//
// All queues, bundles, and counters are exclusively owned and mutated by
// the single simulator instance; there is one thread of control.
type Simulator struct {
	out    io.Writer
	device Device
	matrix *KeyMatrix

	debug                   bool
	cycleDuration           int64
	abortOnFirstError       bool
	errorOnUnconsumedReport bool

	state   RunState
	passed  bool
	cycleID int
	// timeMillis is monotonically non-decreasing simulated time.
	timeMillis int64

	errorCount   int
	errorsByCode map[ErrorCode]int
	errors       []string

	reportsInCycle int
	totalReports   int

	bundles        map[report.Kind]*assertion.Bundle
	cycleQueued    *assertion.Queue
	cyclePermanent *assertion.Queue
	current        map[report.Kind]report.Report

	runID    string
	recorder Recorder
}

// New creates a simulator driving the given device. A nil device is
// replaced by one that never emits, which is useful for cycle-scoped
// assertions alone.
func New(device Device, opts ...Option) *Simulator {
	if device == nil {
		device = nullDevice{}
	}

	s := &Simulator{
		out:          os.Stdout,
		device:       device,
		matrix:       NewKeyMatrix(),
		state:        StateIdle,
		passed:       true,
		errorsByCode: make(map[ErrorCode]int),
		bundles: map[report.Kind]*assertion.Bundle{
			report.Keyboard:      assertion.NewBundle(),
			report.Mouse:         assertion.NewBundle(),
			report.AbsoluteMouse: assertion.NewBundle(),
		},
		cycleQueued:    assertion.NewQueue(),
		cyclePermanent: assertion.NewQueue(),
		current:        make(map[report.Kind]report.Report),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.runID == "" {
		s.runID = UUIDGenerator{}.Generate()
	}

	return s
}

// State returns the current lifecycle state.
func (s *Simulator) State() RunState { return s.state }

// Passed returns the logical AND of every assertion result evaluated so
// far. Structural errors (unconsumed reports, leftover queued
// assertions) and failed condition checks do not affect it; they only
// count errors.
func (s *Simulator) Passed() bool { return s.passed }

// RunID returns the identity this run was stamped with.
func (s *Simulator) RunID() string { return s.runID }

// ErrorCount returns the total number of errors recorded so far.
func (s *Simulator) ErrorCount() int { return s.errorCount }

// ErrorCountByCode returns how many errors of the given code were
// recorded.
func (s *Simulator) ErrorCountByCode(code ErrorCode) int {
	return s.errorsByCode[code]
}

// Errors returns the recorded error messages in order.
func (s *Simulator) Errors() []string {
	out := make([]string, len(s.errors))
	copy(out, s.errors)
	return out
}

// CycleDuration returns the configured cycle duration in milliseconds.
func (s *Simulator) CycleDuration() int64 { return s.cycleDuration }

// SetCycleDuration changes the duration of every subsequent cycle.
func (s *Simulator) SetCycleDuration(ms int64) { s.cycleDuration = ms }

// Debug returns the debug output state.
func (s *Simulator) Debug() bool { return s.debug }

// SetDebug toggles verbose output.
func (s *Simulator) SetDebug(debug bool) { s.debug = debug }

// AbortOnFirstError returns the abort-on-first-error setting.
func (s *Simulator) AbortOnFirstError() bool { return s.abortOnFirstError }

// SetAbortOnFirstError toggles abort-on-first-error.
func (s *Simulator) SetAbortOnFirstError(abort bool) { s.abortOnFirstError = abort }

// ErrorOnUnconsumedReport returns the unconsumed-report error setting.
func (s *Simulator) ErrorOnUnconsumedReport() bool { return s.errorOnUnconsumedReport }

// SetErrorOnUnconsumedReport toggles the unconsumed-report error.
func (s *Simulator) SetErrorOnUnconsumedReport(flag bool) { s.errorOnUnconsumedReport = flag }

// Matrix returns the pressed-key matrix.
func (s *Simulator) Matrix() *KeyMatrix { return s.matrix }

// ReportAssertions returns the bundle for the given report kind,
// creating it for kinds the simulator has not seen before.
func (s *Simulator) ReportAssertions(kind report.Kind) *assertion.Bundle {
	b, ok := s.bundles[kind]
	if !ok {
		b = assertion.NewBundle()
		s.bundles[kind] = b
	}
	return b
}

// KeyboardReportAssertions returns the keyboard report bundle.
func (s *Simulator) KeyboardReportAssertions() *assertion.Bundle {
	return s.ReportAssertions(report.Keyboard)
}

// MouseReportAssertions returns the mouse report bundle.
func (s *Simulator) MouseReportAssertions() *assertion.Bundle {
	return s.ReportAssertions(report.Mouse)
}

// AbsoluteMouseReportAssertions returns the absolute mouse report bundle.
func (s *Simulator) AbsoluteMouseReportAssertions() *assertion.Bundle {
	return s.ReportAssertions(report.AbsoluteMouse)
}

// QueuedCycleAssertions returns the queue whose head is applied at the
// end of the next cycle and removed afterwards.
func (s *Simulator) QueuedCycleAssertions() *assertion.Queue { return s.cycleQueued }

// PermanentCycleAssertions returns the set applied after every cycle.
func (s *Simulator) PermanentCycleAssertions() *assertion.Queue { return s.cyclePermanent }

// Environment implementation. Assertions query simulator state through
// these during evaluation.

// CurrentReport returns the most recent report of the given kind, or
// nil if none has been emitted.
func (s *Simulator) CurrentReport(kind report.Kind) report.Report {
	return s.current[kind]
}

// CycleID returns the current cycle id.
func (s *Simulator) CycleID() int { return s.cycleID }

// TimeMillis returns the current simulated time in milliseconds.
func (s *Simulator) TimeMillis() int64 { return s.timeMillis }

// ReportsInCycle returns the number of reports emitted in the current
// cycle so far.
func (s *Simulator) ReportsInCycle() int { return s.reportsInCycle }

// TotalReports returns the number of reports emitted since the run
// started.
func (s *Simulator) TotalReports() int { return s.totalReports }

// PressKey registers a key press. The matrix mutates immediately; no
// cycle is consumed, and the device observes the key on its next
// advance.
func (s *Simulator) PressKey(row, col uint8) {
	s.Debugf("press key (%d, %d)", row, col)
	s.matrix.Press(row, col)
}

// ReleaseKey registers a key release. The key should have been pressed
// first.
func (s *Simulator) ReleaseKey(row, col uint8) {
	s.Debugf("release key (%d, %d)", row, col)
	s.matrix.Release(row, col)
}

// ClearAllKeys releases every key that is currently pressed.
func (s *Simulator) ClearAllKeys() {
	s.Debugf("clear all keys")
	s.matrix.Clear()
}

// TapKey presses the key, runs one cycle, and releases it.
func (s *Simulator) TapKey(row, col uint8) {
	s.PressKey(row, col)
	s.Cycle()
	s.ReleaseKey(row, col)
}

// MultiTapKey taps the key n times. Each tap occupies intervalCycles
// cycles in total: press, one cycle, release, then intervalCycles-1
// further cycles. If after is non-nil it is evaluated immediately
// (bypassing all queues) at the end of each tap-and-wait.
func (s *Simulator) MultiTapKey(n int, row, col uint8, intervalCycles int, after assertion.Assertion) {
	if intervalCycles < 1 {
		intervalCycles = 1
	}
	for i := 0; i < n && s.state != StateAborted; i++ {
		s.PressKey(row, col)
		s.Cycle()
		s.ReleaseKey(row, col)
		for j := 1; j < intervalCycles && s.state != StateAborted; j++ {
			s.Cycle()
		}
		if after != nil {
			s.EvaluateAssertions(after)
		}
	}
}

// Cycle runs one scan cycle and processes assertions afterwards.
//
// Order within the cycle: reset the per-cycle report counter, advance
// the device (which dispatches any emitted reports synchronously),
// evaluate permanent then queued cycle-scoped assertions, then advance
// simulated time and the cycle id. Once the run aborts, the remainder of
// the cycle is skipped, including the time advance.
func (s *Simulator) Cycle() {
	if !s.beginCycle("Cycle") {
		return
	}
	s.runCycle()
}

// Cycles runs n scan cycles (the default scan count when n <= 0) and
// immediately evaluates the given assertions after every cycle.
func (s *Simulator) Cycles(n int, perCycle ...assertion.Assertion) {
	if n <= 0 {
		n = defaultScanCycles
	}
	if !s.beginCycle("Cycles") {
		return
	}
	for i := 0; i < n && s.state == StateRunning; i++ {
		s.runCycle()
		if s.state == StateRunning {
			s.EvaluateAssertions(perCycle...)
		}
	}
}

// AdvanceTimeBy skips a time interval by running whole cycles. The
// interval must be an exact non-negative multiple of the cycle
// duration; otherwise an error is reported and no cycle executes.
func (s *Simulator) AdvanceTimeBy(deltaMillis int64) {
	if !s.beginCycle("AdvanceTimeBy") {
		return
	}
	if deltaMillis < 0 {
		s.Errorf(ErrCodeCallerMisuse, "cannot advance time by negative interval %d ms", deltaMillis)
		return
	}
	if deltaMillis%s.cycleDuration != 0 {
		s.Errorf(ErrCodeCallerMisuse,
			"time interval %d ms is not a multiple of the cycle duration %d ms",
			deltaMillis, s.cycleDuration)
		return
	}
	n := deltaMillis / s.cycleDuration
	for i := int64(0); i < n && s.state == StateRunning; i++ {
		s.runCycle()
	}
}

// AdvanceTimeTo runs cycles until simulated time reaches target. Target
// times in the past are reported as errors.
func (s *Simulator) AdvanceTimeTo(targetMillis int64) {
	if targetMillis < s.timeMillis {
		s.Errorf(ErrCodeCallerMisuse,
			"target time %d ms lies before current time %d ms", targetMillis, s.timeMillis)
		return
	}
	s.AdvanceTimeBy(targetMillis - s.timeMillis)
}

// CycleExpectReports queues the given assertions for the report kind,
// runs one cycle, and reports an error if any of them were not consumed
// by a report during that cycle. Leftovers are drained.
func (s *Simulator) CycleExpectReports(kind report.Kind, as ...assertion.Assertion) {
	bundle := s.ReportAssertions(kind)
	bundle.Queued().Add(as...)
	s.Cycle()
	if !bundle.Queued().Empty() {
		s.Errorf(ErrCodeLeftoverQueued,
			"%d %s report assertion(s) left in queue after cycle", bundle.Queued().Len(), kind)
		s.drainAndDescribe(bundle.Queued())
	}
}

// EvaluateAssertions immediately evaluates each given assertion against
// current state, bypassing all queues. An empty list is a no-op. Not
// gated by run state: it remains usable after an abort.
func (s *Simulator) EvaluateAssertions(as ...assertion.Assertion) {
	for _, a := range as {
		s.evaluateOne(a)
	}
}

// AssertCondition checks a plain boolean outside the assertion-object
// machinery. On failure it logs the literal expression text and counts
// an error, but never triggers an abort by itself.
func (s *Simulator) AssertCondition(cond bool, exprText string) {
	if cond {
		s.Debugf("condition holds: %s", exprText)
		return
	}
	s.Errorf(ErrCodeConditionFailed, "condition failed: %s", exprText)
}

// AssertNothingQueued reports an error for every queued collection that
// still holds assertions, then drains it. Run it at test-scope exit to
// catch assertions the script forgot to trigger.
func (s *Simulator) AssertNothingQueued() {
	for kind, bundle := range s.bundles {
		if !bundle.Queued().Empty() {
			s.Errorf(ErrCodeLeftoverQueued,
				"%d %s report assertion(s) still queued", bundle.Queued().Len(), kind)
			s.drainAndDescribe(bundle.Queued())
		}
	}
	if !s.cycleQueued.Empty() {
		s.Errorf(ErrCodeLeftoverQueued,
			"%d cycle assertion(s) still queued", s.cycleQueued.Len())
		s.drainAndDescribe(s.cycleQueued)
	}
}

// Finish ends the run: it performs the nothing-queued check, writes the
// footer, and transitions to the terminal Finished state. Further cycle
// calls are reported as caller misuse.
func (s *Simulator) Finish() {
	if s.state == StateFinished {
		return
	}
	s.AssertNothingQueued()
	s.state = StateFinished
	verdict := "PASSED"
	if !s.passed || s.errorCount > 0 {
		verdict = "FAILED"
	}
	s.Headerf("run %s %s\ncycles: %d  reports: %d  errors: %d",
		s.runID, verdict, s.cycleID, s.totalReports, s.errorCount)
}

// beginCycle validates that cycle-driven operations may proceed and
// performs the Idle -> Running transition. Aborted runs return false
// silently; the abort was already reported.
func (s *Simulator) beginCycle(op string) bool {
	switch s.state {
	case StateAborted:
		return false
	case StateFinished:
		s.Errorf(ErrCodeCallerMisuse, "%s called after Finish", op)
		return false
	}
	if s.cycleDuration <= 0 {
		s.Errorf(ErrCodeCallerMisuse, "cycle duration must be set before the first cycle")
		return false
	}
	if s.state == StateIdle {
		s.state = StateRunning
		s.Headerf("keysim run %s\ncycle duration: %d ms", s.runID, s.cycleDuration)
	}
	return true
}

// runCycle executes one cycle. Callers must have passed beginCycle.
func (s *Simulator) runCycle() {
	s.reportsInCycle = 0
	s.Debugf("cycle %d begins at %d ms", s.cycleID, s.timeMillis)

	s.device.AdvanceOneCycle(s.matrix, s.handleReport)
	if s.state != StateRunning {
		return
	}

	permanentPassed := s.cyclePermanent.EvaluateAll(s.evaluateOne)
	res := s.cycleQueued.PopAndEvaluateOne(s.evaluateOne)
	s.applyAbortPolicy(permanentPassed, res)
	if s.state != StateRunning {
		return
	}

	s.timeMillis += s.cycleDuration
	s.cycleID++
}

// handleReport dispatches one emitted report: counters, current-report
// bookkeeping, recording, then permanent and queued evaluation for the
// report's kind. Aborted runs drop further reports of the same cycle.
func (s *Simulator) handleReport(r report.Report) {
	if s.state != StateRunning || r == nil {
		return
	}

	s.reportsInCycle++
	s.totalReports++
	s.current[r.Kind()] = r

	if s.recorder != nil {
		s.recorder.RecordReport(s.runID, s.totalReports, s.cycleID, s.timeMillis, r)
	}
	s.Debugf("report %d in cycle %d: %s", s.reportsInCycle, s.cycleID, r.Summary())

	bundle := s.ReportAssertions(r.Kind())
	permanentPassed := bundle.Permanent().EvaluateAll(s.evaluateOne)
	res := bundle.Queued().PopAndEvaluateOne(s.evaluateOne)

	if !res.Evaluated && s.errorOnUnconsumedReport {
		s.Errorf(ErrCodeUnconsumedReport,
			"%s report arrived with no queued assertion: %s", r.Kind(), r.Summary())
	}

	s.applyAbortPolicy(permanentPassed, res)
}

// applyAbortPolicy transitions to Aborted when abort-on-first-error is
// enabled and any evaluation at this dispatch point failed.
func (s *Simulator) applyAbortPolicy(permanentPassed bool, res assertion.EvalResult) {
	if !s.abortOnFirstError || s.state != StateRunning {
		return
	}
	if !permanentPassed || (res.Evaluated && !res.Passed) {
		s.state = StateAborted
		s.Logf("aborting: first failing evaluation in cycle %d", s.cycleID)
	}
}

// evaluateOne binds and evaluates a single assertion, logs failures
// (and passes, under debug) with description and observed state, and
// folds the result into the run-wide pass flag.
func (s *Simulator) evaluateOne(a assertion.Assertion) bool {
	a.Bind(s)
	passed := a.Evaluate()
	if !passed {
		s.Errorf(ErrCodeAssertionFailed, "assertion failed:\n%s\nobserved:\n%s",
			a.Describe("   "), a.DescribeState("   "))
	} else if s.debug {
		s.Logf("assertion passed:\n%s", a.Describe("   "))
	}
	s.passed = s.passed && passed
	return passed
}

// drainAndDescribe empties a queue and logs what was left in it.
func (s *Simulator) drainAndDescribe(q *assertion.Queue) {
	for _, a := range q.Drain() {
		s.Logf("left queued:\n%s", a.Describe("   "))
	}
}
