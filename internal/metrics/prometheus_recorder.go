package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	stageDuration *prom.HistogramVec
	cycleDuration prom.Histogram
	unitResults   *prom.CounterVec
	cycleOutcomes *prom.CounterVec
	triggers      prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "wcc",
			Name:      "stage_duration_seconds",
			Help:      "Duration of the compile and link stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.cycleDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "wcc",
			Name:      "cycle_duration_seconds",
			Help:      "Total build cycle duration",
			Buckets:   prom.DefBuckets,
		})
		pr.unitResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "wcc",
			Name:      "unit_results_total",
			Help:      "Compilation unit results by outcome",
		}, []string{"result"})
		pr.cycleOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "wcc",
			Name:      "cycle_outcomes_total",
			Help:      "Build cycle outcomes",
		}, []string{"outcome"})
		pr.triggers = prom.NewCounter(prom.CounterOpts{
			Namespace: "wcc",
			Name:      "watch_triggers_total",
			Help:      "Build cycles started by the watch scheduler",
		})
		reg.MustRegister(pr.stageDuration, pr.cycleDuration, pr.unitResults, pr.cycleOutcomes, pr.triggers)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveCycleDuration(d time.Duration) {
	if p == nil || p.cycleDuration == nil {
		return
	}
	p.cycleDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncUnitResult(result UnitResult) {
	if p == nil || p.unitResults == nil {
		return
	}
	p.unitResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncCycleOutcome(outcome Outcome) {
	if p == nil || p.cycleOutcomes == nil {
		return
	}
	p.cycleOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncTrigger() {
	if p == nil || p.triggers == nil {
		return
	}
	p.triggers.Inc()
}
