package assertion

// EvalResult reports the outcome of a pop-and-evaluate step.
//
// Evaluated is false when the queue was empty: that is the signal the
// simulator uses to flag "report without queued assertion" errors when
// that option is enabled. Passed is meaningful only when Evaluated is
// true.
type EvalResult struct {
	Evaluated bool
	Passed    bool
}

// Evaluator applies one assertion against the current context and
// returns whether it passed. The simulator supplies this callback; it
// binds the assertion, folds the result into the run-wide pass flag,
// and handles logging, so the queue stays free of engine concerns.
type Evaluator func(Assertion) bool

// Queue is an ordered collection of assertions.
//
// Used with PopAndEvaluateOne it behaves as the queued (one-shot)
// lifetime: insertion order is evaluation order, and exactly one element
// is consumed per matching event. Used with EvaluateAll it behaves as
// the permanent lifetime: every element is evaluated and none removed.
type Queue struct {
	items []Assertion
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add appends one or more assertions at the tail, preserving call order.
func (q *Queue) Add(as ...Assertion) {
	q.items = append(q.items, as...)
}

// PopAndEvaluateOne removes the front assertion and evaluates it via
// eval. If the queue is empty it returns EvalResult{Evaluated: false}
// and consumes nothing.
func (q *Queue) PopAndEvaluateOne(eval Evaluator) EvalResult {
	if len(q.items) == 0 {
		return EvalResult{}
	}

	a := q.items[0]
	// Nil out the slot so the queue does not retain the assertion.
	q.items[0] = nil
	q.items = q.items[1:]

	return EvalResult{Evaluated: true, Passed: eval(a)}
}

// EvaluateAll evaluates every assertion in insertion order without
// removing any, and returns the logical AND of the results. Every
// assertion is evaluated even after a failure; an empty queue yields
// true.
func (q *Queue) EvaluateAll(eval Evaluator) bool {
	passed := true
	for _, a := range q.items {
		passed = eval(a) && passed
	}
	return passed
}

// Drain removes and returns all remaining assertions in order.
func (q *Queue) Drain() []Assertion {
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of assertions held.
func (q *Queue) Len() int { return len(q.items) }

// Empty reports whether the queue holds no assertions.
func (q *Queue) Empty() bool { return len(q.items) == 0 }
