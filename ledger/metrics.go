package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/xerrors"

	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/poll"
)

const metricsNamespace = "partivotes"

type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	height      prometheus.Gauge
	polls       prometheus.Gauge
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "invocations_total",
			Help:      "Number of invocations by operation and result",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "invocation_duration_seconds",
			Help:      "Time to process the invocation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "height",
			Help:      "Latest height of the journal",
		}),
		polls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "polls",
			Help:      "Number of polls",
		}),
	}

	for _, c := range []prometheus.Collector{m.invocations, m.duration, m.height, m.polls} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// resultLabel is "ok" or the code of the coded error.
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}

	var e common.Error
	if xerrors.As(err, &e) {
		return e.Code()
	}

	return "error"
}

func (m *Metrics) observe(op poll.Operation, started time.Time, err error) {
	if m == nil {
		return
	}

	m.invocations.WithLabelValues(op.String(), resultLabel(err)).Inc()
	m.duration.WithLabelValues(op.String()).Observe(time.Since(started).Seconds())
}

func (m *Metrics) update(height uint64, st poll.State) {
	if m == nil {
		return
	}

	m.height.Set(float64(height))
	m.polls.Set(float64(st.Counter()))
}
