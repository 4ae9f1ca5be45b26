package sim

// ErrorCode categorizes errors recorded during a simulation run.
//
// All of these surface through the error counter and the output stream
// rather than as returned errors: the caller inspects ErrorCount and
// Passed after the run.
type ErrorCode string

const (
	// ErrCodeAssertionFailed marks a bound predicate that evaluated false.
	ErrCodeAssertionFailed ErrorCode = "ASSERTION_FAILED"

	// ErrCodeConditionFailed marks a failed AssertCondition check.
	ErrCodeConditionFailed ErrorCode = "CONDITION_FAILED"

	// ErrCodeUnconsumedReport marks a report that arrived while its
	// queued collection was empty, with the matching option enabled.
	// A structural error, not a predicate failure.
	ErrCodeUnconsumedReport ErrorCode = "REPORT_WITHOUT_QUEUED_ASSERTION"

	// ErrCodeLeftoverQueued marks assertions still queued when the
	// nothing-queued check ran: a script bug, the assertion was
	// registered but never exercised.
	ErrCodeLeftoverQueued ErrorCode = "LEFTOVER_QUEUED_ASSERTIONS"

	// ErrCodeCallerMisuse marks invalid calls such as a time interval
	// that is not a multiple of the cycle duration, or cycling before
	// the cycle duration was configured.
	ErrCodeCallerMisuse ErrorCode = "CALLER_MISUSE"
)
