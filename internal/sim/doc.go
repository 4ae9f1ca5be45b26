// Package sim implements the deterministic cycle-stepping simulator.
//
// The simulator advances an event-driven keyboard device in discrete
// scan cycles, routes every report the device emits to the assertion
// bundle matching its kind, evaluates pending assertions, and aggregates
// pass/fail state with configurable abort-on-first-error semantics.
//
// ARCHITECTURE:
//
// Single-threaded, synchronous, cooperative. There is no parallelism and
// no asynchronous suspension: Device.AdvanceOneCycle synchronously calls
// the simulator's report handler any number of times before returning,
// as a plain nested call. Cycles execute strictly in call order; within
// a cycle, reports dispatch in emission order; within one bundle, the
// queued assertion consumed is always the earliest inserted among those
// not yet consumed.
//
// Lifecycle: Idle (cycle duration must be configured) -> Running ->
// Aborted (first failing evaluation, when abort-on-first-error is set)
// or Finished (caller ends the run; triggers the nothing-queued check).
// Once aborted, cycle-driven dispatch stops entirely, but immediate
// evaluation and condition checks stay usable.
//
// Errors never unwind the call stack: assertion failures, protocol
// violations, and caller misuse all surface through the error counter
// and the line-oriented output stream. The one exception is evaluating
// an assertion that was never bound to a simulator, which panics.
package sim
