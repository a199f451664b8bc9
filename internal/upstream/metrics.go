package upstream

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records one observation per upstream call. A nil *Metrics is
// valid and records nothing, which keeps tests that don't care short.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the upstream collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creatorproxy",
			Name:      "upstream_requests_total",
			Help:      "Upstream calls by upstream name and HTTP status (\"error\" for transport failures).",
		}, []string{"upstream", "code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "creatorproxy",
			Name:      "upstream_request_duration_seconds",
			Help:      "Wall time of upstream calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"upstream"}),
	}
}

func (m *Metrics) observe(name string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(name, code).Inc()
	m.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}
