package assertion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/keysim/internal/report"
)

// fakeEnv is a trivial Environment for binding tests.
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

func TestGroup_AllChildrenMustPass(t *testing.T) {
	env := &fakeEnv{}

	g := Group(&stub{name: "a", result: true}, &stub{name: "b", result: true})
	g.Bind(env)
	assert.True(t, g.Evaluate())

	g = Group(&stub{name: "a", result: true}, &stub{name: "b", result: false})
	g.Bind(env)
	assert.False(t, g.Evaluate())
}

func TestGroup_EvaluatesEveryChildAfterFailure(t *testing.T) {
	env := &fakeEnv{}
	failing := &stub{name: "failing", result: false}
	trailing := &stub{name: "trailing", result: true}

	g := Group(failing, trailing)
	g.Bind(env)
	g.Evaluate()

	assert.Equal(t, 1, trailing.evaluations)
}

func TestGroup_PropagatesBindingToChildren(t *testing.T) {
	env := &fakeEnv{}
	child := &stub{name: "child", result: true}

	g := Group(child)
	g.Bind(env)

	assert.True(t, child.Bound())
}

func TestAnyOf_OneChildSuffices(t *testing.T) {
	env := &fakeEnv{}

	a := AnyOf(&stub{name: "a", result: false}, &stub{name: "b", result: true})
	a.Bind(env)
	assert.True(t, a.Evaluate())

	a = AnyOf(&stub{name: "a", result: false}, &stub{name: "b", result: false})
	a.Bind(env)
	assert.False(t, a.Evaluate())
}

func TestNot_InvertsChild(t *testing.T) {
	env := &fakeEnv{}

	n := Not(&stub{name: "passing", result: true})
	n.Bind(env)
	assert.False(t, n.Evaluate())

	n = Not(&stub{name: "failing", result: false})
	n.Bind(env)
	assert.True(t, n.Evaluate())
}

func TestGroup_DescribeIndentsChildren(t *testing.T) {
	g := Group(&stub{name: "a"}, &stub{name: "b"})

	desc := g.Describe("   ")

	assert.Contains(t, desc, "all of:")
	assert.Contains(t, desc, `stub "a"`)
	assert.Contains(t, desc, `stub "b"`)
}
