package metrics

import (
	"net/http"

	"github.com/oomph-ac/culling/culling"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus counts culling decisions and visibility passes. It implements culling.Observer.
type Prometheus struct {
	decisions *prometheus.CounterVec
	outcomes  []prometheus.Counter

	sections prometheus.Counter
	faces    *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewPrometheus creates the metrics and registers them with reg. If reg is nil, a new registry is used.
func NewPrometheus(reg *prometheus.Registry) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	p := &Prometheus{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "culling",
			Name:      "decisions_total",
			Help:      "Face culling decisions, by the path the decision took.",
		}, []string{"outcome"}),
		sections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "culling",
			Name:      "sections_built_total",
			Help:      "Sections whose face visibility was computed.",
		}),
		faces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "culling",
			Name:      "faces_total",
			Help:      "Block faces considered while building sections, by whether they are drawn.",
		}, []string{"result"}),
		gatherer: reg,
	}
	for _, c := range []prometheus.Collector{p.decisions, p.sections, p.faces} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	p.outcomes = make([]prometheus.Counter, len(culling.Outcomes))
	for _, o := range culling.Outcomes {
		p.outcomes[o] = p.decisions.WithLabelValues(o.String())
	}
	return p, nil
}

// Observe ...
func (p *Prometheus) Observe(o culling.Outcome) {
	if int(o) < len(p.outcomes) {
		p.outcomes[o].Inc()
	}
}

// ObserveSection records a built section and the faces it had.
func (p *Prometheus) ObserveSection(visible, hidden int) {
	p.sections.Inc()
	p.faces.WithLabelValues("visible").Add(float64(visible))
	p.faces.WithLabelValues("hidden").Add(float64(hidden))
}

// Handler returns an HTTP handler serving the metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
