package metrics

import "time"

// Stage names used for duration metrics
const (
	StageCompile = "compile"
	StageLink    = "link"
)

// UnitResult enumerates per-unit compile outcomes.
type UnitResult string

const (
	UnitUnchanged UnitResult = "unchanged"
	UnitChanged   UnitResult = "changed"
	UnitFailed    UnitResult = "failed"
)

// Outcome enumerates build cycle outcomes.
type Outcome string

const (
	OutcomeLinked        Outcome = "linked"
	OutcomeNoop          Outcome = "noop"
	OutcomeCompileFailed Outcome = "compile_failed"
	OutcomeLinkFailed    Outcome = "link_failed"
	OutcomeError         Outcome = "error"
)

// Recorder defines observability hooks for build cycles. Implementations must
// be safe for concurrent use; compile units report from their own goroutines.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveCycleDuration(d time.Duration)
	IncUnitResult(result UnitResult)
	IncCycleOutcome(outcome Outcome)
	IncTrigger()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveCycleDuration(time.Duration)         {}
func (NoopRecorder) IncUnitResult(UnitResult)                   {}
func (NoopRecorder) IncCycleOutcome(Outcome)                    {}
func (NoopRecorder) IncTrigger()                                {}
