// Package testutil provides deterministic fixtures shared by simulator
// and scenario tests: a scripted device with a fully predetermined
// emission schedule and a stub assertion with a controllable verdict.
package testutil

import (
	"github.com/roach88/keysim/internal/report"
	"github.com/roach88/keysim/internal/sim"
)

// ScriptedDevice emits a predetermined set of reports on each cycle.
// Cycles are counted from 0 in the order AdvanceOneCycle is called;
// cycles without a script entry emit nothing.
type ScriptedDevice struct {
	script map[int][]report.Report
	cycle  int
}

// NewScriptedDevice creates a device with an empty schedule.
func NewScriptedDevice() *ScriptedDevice {
	return &ScriptedDevice{script: make(map[int][]report.Report)}
}

// EmitOnCycle schedules reports for the given cycle, appended in call
// order.
func (d *ScriptedDevice) EmitOnCycle(cycle int, reports ...report.Report) {
	d.script[cycle] = append(d.script[cycle], reports...)
}

// Cycles returns how many times the device has been advanced.
func (d *ScriptedDevice) Cycles() int { return d.cycle }

// AdvanceOneCycle implements sim.Device. The matrix is ignored; the
// schedule alone decides what is emitted.
func (d *ScriptedDevice) AdvanceOneCycle(_ *sim.KeyMatrix, emit func(report.Report)) {
	for _, r := range d.script[d.cycle] {
		emit(r)
	}
	d.cycle++
}
