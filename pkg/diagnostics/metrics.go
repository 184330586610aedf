package diagnostics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/controls/pkg/tree"
)

// Metrics is a tree observer that exports lifecycle counts to Prometheus.
type Metrics struct {
	events   *prometheus.CounterVec
	attached prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "controls",
				Name:      "lifecycle_events_total",
				Help:      "Lifecycle notifications delivered, by event.",
			},
			[]string{"event"},
		),
		attached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "controls",
			Name:      "attached_nodes",
			Help:      "Nodes currently attached to an observed tree, excluding roots.",
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.events, m.attached} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Events returns the event counter, labelled by EventKind name.
func (m *Metrics) Events() *prometheus.CounterVec {
	return m.events
}

// Attached returns the attached-node gauge.
func (m *Metrics) Attached() prometheus.Gauge {
	return m.attached
}

func (m *Metrics) NodeAttached(*tree.Node) {
	m.events.WithLabelValues(EventAttached.String()).Inc()
	m.attached.Inc()
}

func (m *Metrics) NodeDetached(*tree.Node) {
	m.events.WithLabelValues(EventDetached.String()).Inc()
	m.attached.Dec()
}

func (m *Metrics) NodeInitialized(*tree.Node) {
	m.events.WithLabelValues(EventInitialized.String()).Inc()
}

func (m *Metrics) NodeStyled(*tree.Node) {
	m.events.WithLabelValues(EventStyled.String()).Inc()
}

func (m *Metrics) NodeStyleDetached(*tree.Node) {
	m.events.WithLabelValues(EventStyleDetached.String()).Inc()
}
