package callshape

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ygrebnov/callshape/constants"
)

const resultError = "error"

// Metrics holds the Prometheus collectors a Classifier reports to.
type Metrics struct {
	Resolutions     *prometheus.CounterVec
	KnownSignatures prometheus.Gauge
}

// NewMetrics creates the classifier collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.Namespace,
			Name:      "resolutions_total",
			Help:      "Total number of method classifications by matching rule",
		}, []string{"rule"}),
		KnownSignatures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: constants.Namespace,
			Name:      "known_signatures",
			Help:      "Number of signatures in the lookup table",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Resolutions, m.KnownSignatures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(res Resolution, err error) {
	if m == nil {
		return
	}
	label := res.Rule.String()
	if err != nil {
		label = resultError
	}
	m.Resolutions.WithLabelValues(label).Inc()
}

func (m *Metrics) tableBuilt(n int) {
	if m == nil {
		return
	}
	m.KnownSignatures.Set(float64(n))
}
