package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/keysim/internal/assertion"
	"github.com/roach88/keysim/internal/report"
)

// fakeEnv provides assertion.Environment without a running simulator.
type fakeEnv struct {
	cycleID        int
	timeMillis     int64
	reportsInCycle int
	totalReports   int
	reports        map[report.Kind]report.Report
}

func (e *fakeEnv) CurrentReport(kind report.Kind) report.Report { return e.reports[kind] }
func (e *fakeEnv) CycleID() int                                 { return e.cycleID }
func (e *fakeEnv) TimeMillis() int64                            { return e.timeMillis }
func (e *fakeEnv) ReportsInCycle() int                          { return e.reportsInCycle }
func (e *fakeEnv) TotalReports() int                            { return e.totalReports }

func envWithKeyboard(r *report.KeyboardReport) *fakeEnv {
	return &fakeEnv{reports: map[report.Kind]report.Report{report.Keyboard: r}}
}

func eval(t *testing.T, a assertion.Assertion, env assertion.Environment) bool {
	t.Helper()
	a.Bind(env)
	return a.Evaluate()
}

func TestAnyKeycodeActive(t *testing.T) {
	assert.True(t, eval(t, AnyKeycodeActive(), envWithKeyboard(report.NewKeyboardReport(0, 4))))
	assert.False(t, eval(t, AnyKeycodeActive(), envWithKeyboard(report.NewKeyboardReport(0))))
}

func TestAnyKeycodeActive_NoReportYet(t *testing.T) {
	env := &fakeEnv{reports: map[report.Kind]report.Report{}}

	a := AnyKeycodeActive()
	assert.False(t, eval(t, a, env))
	assert.Equal(t, "no keyboard report emitted yet", a.DescribeState(""))
}

func TestKeycodeActive(t *testing.T) {
	env := envWithKeyboard(report.NewKeyboardReport(0, 4, 5))

	assert.True(t, eval(t, KeycodeActive(4), env))
	assert.False(t, eval(t, KeycodeActive(6), env))
}

func TestKeycodesActive_AllRequired(t *testing.T) {
	env := envWithKeyboard(report.NewKeyboardReport(0, 4, 5))

	assert.True(t, eval(t, KeycodesActive(4, 5), env))
	assert.False(t, eval(t, KeycodesActive(4, 6), env))
}

func TestModifierActive(t *testing.T) {
	env := envWithKeyboard(report.NewKeyboardReport(0b10))

	assert.True(t, eval(t, ModifierActive(0b10), env))
	assert.False(t, eval(t, ModifierActive(0b01), env))
}

func TestKeyboardReportEmpty(t *testing.T) {
	assert.True(t, eval(t, KeyboardReportEmpty(), envWithKeyboard(report.NewKeyboardReport(0))))
	assert.False(t, eval(t, KeyboardReportEmpty(), envWithKeyboard(report.NewKeyboardReport(0, 4))))
	// Without a report there is nothing to call empty.
	assert.False(t, eval(t, KeyboardReportEmpty(), &fakeEnv{reports: map[report.Kind]report.Report{}}))
}

func TestReportNthInCycle(t *testing.T) {
	env := &fakeEnv{reportsInCycle: 2}

	assert.True(t, eval(t, ReportNthInCycle(2), env))
	assert.False(t, eval(t, ReportNthInCycle(1), env))
}

func TestCycleIs(t *testing.T) {
	env := &fakeEnv{cycleID: 7}

	assert.True(t, eval(t, CycleIs(7), env))
	assert.False(t, eval(t, CycleIs(8), env))
}

func TestTimeIs(t *testing.T) {
	env := &fakeEnv{timeMillis: 35}

	assert.True(t, eval(t, TimeIs(35), env))
	assert.False(t, eval(t, TimeIs(30), env))
}

func TestFunc(t *testing.T) {
	env := &fakeEnv{totalReports: 3}

	a := Func("three reports emitted", func(env assertion.Environment) bool {
		return env.TotalReports() == 3
	})

	assert.True(t, eval(t, a, env))
	assert.Equal(t, "three reports emitted", a.Describe(""))
}

func TestMouseMovedBy(t *testing.T) {
	env := &fakeEnv{reports: map[report.Kind]report.Report{
		report.Mouse: report.NewMouseReport(3, -2, 0, 0),
	}}

	assert.True(t, eval(t, MouseMovedBy(3, -2), env))
	assert.False(t, eval(t, MouseMovedBy(3, 2), env))
}

func TestMouseButtonActive(t *testing.T) {
	env := &fakeEnv{reports: map[report.Kind]report.Report{
		report.Mouse: report.NewMouseReport(0, 0, 0b01, 0),
	}}

	assert.True(t, eval(t, MouseButtonActive(0b01), env))
	assert.False(t, eval(t, MouseButtonActive(0b10), env))
}

func TestComposition_GroupOfPredicates(t *testing.T) {
	env := envWithKeyboard(report.NewKeyboardReport(0, 4))

	g := assertion.Group(AnyKeycodeActive(), KeycodeActive(4))
	assert.True(t, eval(t, g, env))

	g = assertion.Group(AnyKeycodeActive(), KeycodeActive(5))
	assert.False(t, eval(t, g, env))
}
