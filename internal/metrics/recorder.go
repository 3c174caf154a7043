package metrics

import "time"

// Outcome enumerates result labels shared by the counters.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeAbsent  Outcome = "absent"
	OutcomeFailed  Outcome = "failed"
)

// Recorder defines observability hooks for the page lifecycle. Implementations
// must tolerate being called from the delayed-phase goroutine.
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	ObservePageDuration(d time.Duration)
	IncIconSwap(outcome Outcome)
	IncFragmentLoad(outcome Outcome)
	IncBlockLoad(block string, outcome Outcome)
	IncDegradation(category string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration) {}
func (NoopRecorder) ObservePageDuration(time.Duration)          {}
func (NoopRecorder) IncIconSwap(Outcome)                        {}
func (NoopRecorder) IncFragmentLoad(Outcome)                    {}
func (NoopRecorder) IncBlockLoad(string, Outcome)               {}
func (NoopRecorder) IncDegradation(string)                      {}
