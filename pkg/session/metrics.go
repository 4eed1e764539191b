package session

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the counters and histograms Sessions report,
// registered against an optional prometheus.Registerer so the engine
// stays usable without a metrics server. One metrics instance is
// shared by every Session constructed against the same Registerer
// (a daemon typically passes the same one to every accepted
// connection), since per-session collectors would collide on
// registration.
type metrics struct {
	framesReceived   prometheus.Counter
	framesSent       prometheus.Counter
	sessionsOpened   prometheus.Counter
	sessionsClosed   *prometheus.CounterVec
	handshakeSeconds prometheus.Histogram
}

var (
	metricsMu    sync.Mutex
	metricsCache = map[prometheus.Registerer]*metrics{}
)

func metricsFor(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return newMetrics(nil)
	}
	metricsMu.Lock()
	defer metricsMu.Unlock()
	if m, ok := metricsCache[reg]; ok {
		return m
	}
	m := newMetrics(reg)
	metricsCache[reg] = m
	return m
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aaengine",
			Subsystem: "session",
			Name:      "frames_received_total",
			Help:      "Frames read from the transport across all sessions.",
		}),
		framesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aaengine",
			Subsystem: "session",
			Name:      "frames_sent_total",
			Help:      "Messages written by the outbound pump across all sessions; handler replies are not counted.",
		}),
		sessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aaengine",
			Subsystem: "session",
			Name:      "sessions_opened_total",
			Help:      "Sessions started.",
		}),
		sessionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aaengine",
			Subsystem: "session",
			Name:      "sessions_closed_total",
			Help:      "Sessions ended, by reason.",
		}, []string{"reason"}),
		handshakeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aaengine",
			Subsystem: "session",
			Name:      "handshake_seconds",
			Help:      "Time from VERSION_REQUEST to AUTH_COMPLETE.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		return m
	}
	reg.MustRegister(m.framesReceived, m.framesSent, m.sessionsOpened, m.sessionsClosed, m.handshakeSeconds)
	return m
}
