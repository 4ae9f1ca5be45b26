// Package report defines the output events a simulated keyboard device
// emits during a scan cycle.
//
// A report is an immutable snapshot of one device output event. The
// simulator routes each report to the assertion bundle matching its kind;
// assertions query the payload through the read-only accessors defined
// here. Constructors copy their inputs so a report can never be mutated
// after creation.
package report

// Kind identifies the event kind of a report.
//
// The simulator keeps one assertion bundle per kind. Adding a new kind
// requires no engine changes: implement Report, pick a fresh Kind tag,
// and route assertions through the matching bundle.
type Kind string

const (
	// Keyboard is the kind tag for key-state reports.
	Keyboard Kind = "keyboard"
	// Mouse is the kind tag for relative pointer reports.
	Mouse Kind = "mouse"
	// AbsoluteMouse is the kind tag for absolute pointer reports.
	AbsoluteMouse Kind = "absolute_mouse"
)

// Report is an immutable snapshot of one device output event.
type Report interface {
	// Kind returns the event kind tag used for bundle routing.
	Kind() Kind

	// Summary returns a short single-line description of the payload
	// for log lines and trace records.
	Summary() string
}
