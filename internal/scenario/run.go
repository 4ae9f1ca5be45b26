package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/keysim/internal/assertion"
	"github.com/roach88/keysim/internal/device"
	"github.com/roach88/keysim/internal/expect"
	"github.com/roach88/keysim/internal/report"
	"github.com/roach88/keysim/internal/sim"
	"github.com/roach88/keysim/internal/store"
)

// TraceEvent is one recorded device report, in emission order.
type TraceEvent struct {
	Seq        int
	Cycle      int
	TimeMillis int64
	Kind       string
	Summary    string
}

// Result summarizes one scenario run.
type Result struct {
	RunID string

	// Pass is true when every assertion passed and no error of any kind
	// was recorded.
	Pass bool

	ErrorCount      int
	Errors          []string
	Cycles          int
	ReportsTotal    int
	FinalTimeMillis int64
	Trace           []TraceEvent
}

// Runner executes scenarios against a loopback keyboard device.
type Runner struct {
	logger *slog.Logger
	st     *store.Store
	gen    sim.RunIDGenerator
	out    io.Writer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the structured logger for runner diagnostics.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// WithStore attaches a trace store; every run and report is persisted.
func WithStore(st *store.Store) RunnerOption {
	return func(r *Runner) { r.st = st }
}

// WithRunIDGenerator overrides run ID generation, for deterministic
// golden runs.
func WithRunIDGenerator(gen sim.RunIDGenerator) RunnerOption {
	return func(r *Runner) { r.gen = gen }
}

// WithSimOutput sets the sink for the simulator's log stream. Defaults
// to discarding it; the Result carries everything callers need.
func WithSimOutput(w io.Writer) RunnerOption {
	return func(r *Runner) { r.out = w }
}

// NewRunner creates a runner with the given options.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: slog.Default(),
		gen:    sim.UUIDGenerator{},
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the scenario's steps in order and returns the outcome.
// Assertion failures and simulator errors land in the Result, not in
// the returned error; the error covers structural problems only
// (persistence failures, malformed steps that slipped past validation).
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	rec := &traceRecorder{ctx: ctx, st: r.st, logger: r.logger}

	s := sim.New(device.NewLoopback(nil),
		sim.WithCycleDuration(sc.CycleDurationMillis),
		sim.WithDebug(sc.Options.Debug),
		sim.WithAbortOnFirstError(sc.Options.AbortOnFirstError),
		sim.WithErrorOnUnconsumedReport(sc.Options.ErrorOnUnconsumedReport),
		sim.WithOutput(r.out),
		sim.WithRunIDGenerator(r.gen),
		sim.WithRecorder(rec),
	)

	if r.st != nil {
		if err := r.st.BeginRun(ctx, s.RunID(), sc.Name, time.Now().UnixMilli()); err != nil {
			return nil, fmt.Errorf("begin run: %w", err)
		}
	}

	r.logger.Debug("scenario starting", "scenario", sc.Name, "run", s.RunID())

	for i, step := range sc.Steps {
		if err := applyStep(s, &step); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	s.Finish()

	result := &Result{
		RunID:           s.RunID(),
		Pass:            s.Passed() && s.ErrorCount() == 0,
		ErrorCount:      s.ErrorCount(),
		Errors:          s.Errors(),
		Cycles:          s.CycleID(),
		ReportsTotal:    s.TotalReports(),
		FinalTimeMillis: s.TimeMillis(),
		Trace:           rec.events,
	}

	if r.st != nil {
		err := r.st.FinishRun(ctx, s.RunID(), result.Cycles, result.ReportsTotal, result.ErrorCount, result.Pass)
		if err != nil {
			return nil, fmt.Errorf("finish run: %w", err)
		}
	}

	r.logger.Info("scenario finished",
		"scenario", sc.Name,
		"run", s.RunID(),
		"pass", result.Pass,
		"cycles", result.Cycles,
		"reports", result.ReportsTotal,
		"errors", result.ErrorCount,
	)

	return result, nil
}

// applyStep translates one validated step into simulator calls.
func applyStep(s *sim.Simulator, step *Step) error {
	switch {
	case step.Press != nil:
		s.PressKey(step.Press.Row, step.Press.Col)
	case step.Release != nil:
		s.ReleaseKey(step.Release.Row, step.Release.Col)
	case step.Tap != nil:
		s.TapKey(step.Tap.Row, step.Tap.Col)
	case step.MultiTap != nil:
		mt := step.MultiTap
		s.MultiTapKey(mt.Count, mt.Key.Row, mt.Key.Col, mt.IntervalCycles, nil)
	case step.Cycles != nil:
		s.Cycles(step.Cycles.Count)
	case step.AdvanceTime != nil:
		if step.AdvanceTime.Millis != nil {
			s.AdvanceTimeBy(*step.AdvanceTime.Millis)
		} else {
			s.AdvanceTimeTo(*step.AdvanceTime.To)
		}
	case step.ExpectKeyboardReport != nil:
		s.CycleExpectReports(report.Keyboard, keyboardAssertion(step.ExpectKeyboardReport))
	case step.PermanentKeyboardReport != nil:
		s.KeyboardReportAssertions().Permanent().Add(keyboardAssertion(step.PermanentKeyboardReport))
	case step.ExpectCycle != nil:
		s.EvaluateAssertions(cycleAssertion(step.ExpectCycle))
	case step.ClearKeys != nil:
		s.ClearAllKeys()
	case step.AssertNothingQueued != nil:
		s.AssertNothingQueued()
	default:
		return fmt.Errorf("no action set")
	}
	return nil
}

// keyboardAssertion builds the assertion a KeyboardExpect describes.
// Multiple predicate fields combine conjunctively.
func keyboardAssertion(ke *KeyboardExpect) assertion.Assertion {
	var preds []assertion.Assertion

	if ke.AnyKeycodeActive != nil {
		a := expect.AnyKeycodeActive()
		if !*ke.AnyKeycodeActive {
			a = assertion.Not(a)
		}
		preds = append(preds, a)
	}
	if len(ke.KeycodesActive) > 0 {
		preds = append(preds, expect.KeycodesActive(ke.KeycodesActive...))
	}
	if ke.Empty != nil {
		a := expect.KeyboardReportEmpty()
		if !*ke.Empty {
			a = assertion.Not(a)
		}
		preds = append(preds, a)
	}
	if ke.NthInCycle != nil {
		preds = append(preds, expect.ReportNthInCycle(*ke.NthInCycle))
	}

	if len(preds) == 1 {
		return preds[0]
	}
	return assertion.Group(preds...)
}

func cycleAssertion(ce *CycleExpect) assertion.Assertion {
	var preds []assertion.Assertion
	if ce.CycleID != nil {
		preds = append(preds, expect.CycleIs(*ce.CycleID))
	}
	if ce.TimeMillis != nil {
		preds = append(preds, expect.TimeIs(*ce.TimeMillis))
	}
	if len(preds) == 1 {
		return preds[0]
	}
	return assertion.Group(preds...)
}

// traceRecorder implements sim.Recorder. It accumulates the in-memory
// trace and forwards each report to the store when one is attached.
// Persistence failures are logged and do not disturb the run.
type traceRecorder struct {
	ctx    context.Context
	st     *store.Store
	logger *slog.Logger
	events []TraceEvent
}

func (t *traceRecorder) RecordReport(runID string, seq, cycle int, timeMillis int64, r report.Report) {
	t.events = append(t.events, TraceEvent{
		Seq:        seq,
		Cycle:      cycle,
		TimeMillis: timeMillis,
		Kind:       string(r.Kind()),
		Summary:    r.Summary(),
	})

	if t.st == nil {
		return
	}
	err := t.st.RecordReport(t.ctx, store.ReportRow{
		RunID:      runID,
		Seq:        seq,
		Cycle:      cycle,
		TimeMillis: timeMillis,
		Kind:       string(r.Kind()),
		Summary:    r.Summary(),
	})
	if err != nil {
		t.logger.Warn("failed to persist report", "run", runID, "seq", seq, "error", err)
	}
}
