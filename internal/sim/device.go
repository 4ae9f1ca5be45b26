package sim

import "github.com/roach88/keysim/internal/report"

// Device is the simulated firmware boundary.
//
// AdvanceOneCycle is invoked exactly once per simulator cycle. During
// its execution the device reads the current key matrix and may call
// emit any number of times (including zero), synchronously, before
// returning. The nested emit calls dispatch straight into the
// simulator's assertion machinery; there is no scheduling boundary.
type Device interface {
	AdvanceOneCycle(matrix *KeyMatrix, emit func(report.Report))
}

// nullDevice never emits. It stands in when a simulator is constructed
// without a device, which is useful for exercising cycle-scoped
// assertions alone.
type nullDevice struct{}

func (nullDevice) AdvanceOneCycle(*KeyMatrix, func(report.Report)) {}
