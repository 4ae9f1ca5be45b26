package assertion

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stub is a minimal assertion for queue and composite tests.
type stub struct {
	Binding
	name        string
	result      bool
	evaluations int
}

func (s *stub) Describe(indent string) string {
	return fmt.Sprintf("%sstub %q", indent, s.name)
}

func (s *stub) DescribeState(indent string) string {
	return fmt.Sprintf("%sevaluated %d time(s)", indent, s.evaluations)
}

func (s *stub) Evaluate() bool {
	s.evaluations++
	return s.result
}

// evaluate mirrors how the simulator drives assertions in tests below.
func evaluate(a Assertion) bool {
	return a.Evaluate()
}

func TestQueue_PopAndEvaluateOne_FIFO(t *testing.T) {
	q := NewQueue()
	first := &stub{name: "first", result: true}
	second := &stub{name: "second", result: true}
	q.Add(first, second)

	res := q.PopAndEvaluateOne(evaluate)
	require.True(t, res.Evaluated)
	assert.True(t, res.Passed)
	assert.Equal(t, 1, first.evaluations)
	assert.Equal(t, 0, second.evaluations)
	assert.Equal(t, 1, q.Len())

	res = q.PopAndEvaluateOne(evaluate)
	require.True(t, res.Evaluated)
	assert.Equal(t, 1, second.evaluations)
	assert.True(t, q.Empty())
}

func TestQueue_PopAndEvaluateOne_EmptyQueue(t *testing.T) {
	q := NewQueue()

	res := q.PopAndEvaluateOne(evaluate)

	assert.False(t, res.Evaluated)
	assert.False(t, res.Passed)
}

func TestQueue_PopAndEvaluateOne_ReportsFailure(t *testing.T) {
	q := NewQueue()
	q.Add(&stub{name: "failing", result: false})

	res := q.PopAndEvaluateOne(evaluate)

	require.True(t, res.Evaluated)
	assert.False(t, res.Passed)
	assert.True(t, q.Empty())
}

func TestQueue_EvaluateAll_KeepsAssertions(t *testing.T) {
	q := NewQueue()
	a := &stub{name: "a", result: true}
	b := &stub{name: "b", result: true}
	q.Add(a, b)

	passed := q.EvaluateAll(evaluate)

	assert.True(t, passed)
	assert.Equal(t, 2, q.Len())

	// A second pass evaluates everything again.
	q.EvaluateAll(evaluate)
	assert.Equal(t, 2, a.evaluations)
	assert.Equal(t, 2, b.evaluations)
}

func TestQueue_EvaluateAll_ContinuesAfterFailure(t *testing.T) {
	q := NewQueue()
	failing := &stub{name: "failing", result: false}
	trailing := &stub{name: "trailing", result: true}
	q.Add(failing, trailing)

	passed := q.EvaluateAll(evaluate)

	assert.False(t, passed)
	// The failure must not short-circuit the rest.
	assert.Equal(t, 1, trailing.evaluations)
}

func TestQueue_EvaluateAll_EmptyIsTrue(t *testing.T) {
	q := NewQueue()
	assert.True(t, q.EvaluateAll(evaluate))
}

func TestQueue_Drain(t *testing.T) {
	q := NewQueue()
	a := &stub{name: "a"}
	b := &stub{name: "b"}
	q.Add(a, b)

	drained := q.Drain()

	require.Len(t, drained, 2)
	assert.Same(t, Assertion(a), drained[0])
	assert.Same(t, Assertion(b), drained[1])
	assert.True(t, q.Empty())
}

func TestBinding_FirstBindWins(t *testing.T) {
	var b Binding
	env1 := &fakeEnv{}
	env2 := &fakeEnv{}

	b.Bind(env1)
	b.Bind(env2)

	assert.Same(t, Environment(env1), b.Environment())
	assert.True(t, b.Bound())
}

func TestBinding_UnboundPanics(t *testing.T) {
	var b Binding

	assert.False(t, b.Bound())
	assert.PanicsWithValue(t, "assertion: evaluated before being bound to a simulator", func() {
		b.Environment()
	})
}

func TestBundle_SeparatesLifetimes(t *testing.T) {
	bundle := NewBundle()
	bundle.Queued().Add(&stub{name: "one-shot"})
	bundle.Permanent().Add(&stub{name: "standing"})

	assert.Equal(t, 1, bundle.Queued().Len())
	assert.Equal(t, 1, bundle.Permanent().Len())

	bundle.Queued().PopAndEvaluateOne(evaluate)

	assert.True(t, bundle.Queued().Empty())
	assert.Equal(t, 1, bundle.Permanent().Len())
}
