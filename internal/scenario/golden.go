package scenario

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/keysim/internal/sim"
)

// TraceSnapshot captures the run outcome and trace for golden file
// comparison. All fields serialize through canonical JSON.
type TraceSnapshot struct {
	ScenarioName string
	Pass         bool
	ErrorCount   int
	Trace        []TraceEvent
}

// toCanonicalMap converts the snapshot to the map shape MarshalCanonical
// consumes.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		traceList[i] = map[string]any{
			"seq":     event.Seq,
			"cycle":   event.Cycle,
			"time_ms": event.TimeMillis,
			"kind":    event.Kind,
			"summary": event.Summary,
		}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"pass":          s.Pass,
		"error_count":   s.ErrorCount,
		"trace":         traceList,
	}
}

// RunWithGolden executes a scenario with a fixed run ID and compares
// the trace snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
func RunWithGolden(t *testing.T, sc *Scenario) (*Result, error) {
	t.Helper()

	runner := NewRunner(WithRunIDGenerator(sim.NewFixedRunID("golden-run")))
	result, err := runner.Run(context.Background(), sc)
	if err != nil {
		return nil, err
	}

	snapshot := TraceSnapshot{
		ScenarioName: sc.Name,
		Pass:         result.Pass,
		ErrorCount:   result.ErrorCount,
		Trace:        result.Trace,
	}

	traceJSON, err := MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, traceJSON)

	return result, nil
}
