package sim

import (
	"fmt"
	"io"
	"strings"
)

// The simulator emits three categories of line-oriented output to a
// replaceable sink: informational, header/banner, and error. Emitting an
// error is what increments the error counter, so every error path funnels
// through Errorf.

const headerRule = "################################################################"

// SetOutput redirects all simulator output to w. Passing nil silences
// the simulator (errors are still counted).
func (s *Simulator) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.out = w
}

// Output returns the current output sink.
func (s *Simulator) Output() io.Writer { return s.out }

// Logf writes an informational line.
func (s *Simulator) Logf(format string, args ...any) {
	s.writeLines("", fmt.Sprintf(format, args...))
}

// Debugf writes an informational line only when debug output is enabled.
func (s *Simulator) Debugf(format string, args ...any) {
	if s.debug {
		s.Logf(format, args...)
	}
}

// Headerf writes a banner line framed by rules.
func (s *Simulator) Headerf(format string, args ...any) {
	fmt.Fprintln(s.out, headerRule)
	s.writeLines("# ", fmt.Sprintf(format, args...))
	fmt.Fprintln(s.out, headerRule)
}

// Errorf records an error: it increments the error counter, tallies the
// code, and writes the message to the output stream. It never aborts the
// run by itself; abort-on-first-error is applied at the dispatch points.
func (s *Simulator) Errorf(code ErrorCode, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.errorCount++
	s.errorsByCode[code]++
	s.errors = append(s.errors, msg)
	s.writeLines(fmt.Sprintf("!!! %s: ", code), msg)
}

// writeLines writes msg line by line, prefixing the first line with
// prefix and continuation lines with matching indentation.
func (s *Simulator) writeLines(prefix, msg string) {
	lines := strings.Split(msg, "\n")
	fmt.Fprintf(s.out, "%s%s\n", prefix, lines[0])
	cont := strings.Repeat(" ", len(prefix))
	for _, line := range lines[1:] {
		fmt.Fprintf(s.out, "%s%s\n", cont, line)
	}
}
