package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	phaseDuration *prom.HistogramVec
	pageDuration  prom.Histogram
	iconSwaps     *prom.CounterVec
	fragmentLoads *prom.CounterVec
	blockLoads    *prom.CounterVec
	degradations  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the pageloader metrics on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "pageloader",
			Name:      "phase_duration_seconds",
			Help:      "Duration of individual lifecycle phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"}),
		pageDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "pageloader",
			Name:      "page_duration_seconds",
			Help:      "Eager plus lazy duration per page",
			Buckets:   prom.DefBuckets,
		}),
		iconSwaps: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pageloader",
			Name:      "icon_swaps_total",
			Help:      "Icon materialization attempts by outcome",
		}, []string{"outcome"}),
		fragmentLoads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pageloader",
			Name:      "fragment_loads_total",
			Help:      "Fragment loads by outcome",
		}, []string{"outcome"}),
		blockLoads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pageloader",
			Name:      "block_loads_total",
			Help:      "Block decorations by block name and outcome",
		}, []string{"block", "outcome"}),
		degradations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pageloader",
			Name:      "degradations_total",
			Help:      "Swallowed failures by error category",
		}, []string{"category"}),
	}
	reg.MustRegister(pr.phaseDuration, pr.pageDuration, pr.iconSwaps, pr.fragmentLoads, pr.blockLoads, pr.degradations)
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	if p == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePageDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.pageDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncIconSwap(outcome Outcome) {
	if p == nil {
		return
	}
	p.iconSwaps.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncFragmentLoad(outcome Outcome) {
	if p == nil {
		return
	}
	p.fragmentLoads.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncBlockLoad(block string, outcome Outcome) {
	if p == nil {
		return
	}
	p.blockLoads.WithLabelValues(block, string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncDegradation(category string) {
	if p == nil {
		return
	}
	p.degradations.WithLabelValues(category).Inc()
}
