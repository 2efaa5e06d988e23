package metrics

import "github.com/prometheus/client_golang/prometheus"

// SessionMetrics exposes counters/histograms for conversation turns.
type SessionMetrics struct {
	turnsTotal             *prometheus.CounterVec
	leadsDispatchedTotal   prometheus.Counter
	transcriptionFailures  prometheus.Counter
	synthesisFailuresTotal prometheus.Counter
	turnLatency            prometheus.Histogram
}

func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	m := &SessionMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicedesk",
			Subsystem: "session",
			Name:      "turns_total",
			Help:      "Total processed conversation turns",
		}, []string{"status"}),
		leadsDispatchedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voicedesk",
			Subsystem: "session",
			Name:      "leads_dispatched_total",
			Help:      "Total leads dispatched to businesses",
		}),
		transcriptionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voicedesk",
			Subsystem: "session",
			Name:      "transcription_failures_total",
			Help:      "Turns where speech-to-text produced no usable text",
		}),
		synthesisFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voicedesk",
			Subsystem: "session",
			Name:      "synthesis_failures_total",
			Help:      "Turns where text-to-speech playback could not be generated",
		}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voicedesk",
			Subsystem: "session",
			Name:      "turn_latency_seconds",
			Help:      "End-to-end latency of a single conversation turn",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.leadsDispatchedTotal, m.transcriptionFailures, m.synthesisFailuresTotal, m.turnLatency)
	return m
}

func (m *SessionMetrics) ObserveTurn(status string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(status).Inc()
	m.turnLatency.Observe(seconds)
}

func (m *SessionMetrics) ObserveLeadDispatched() {
	if m == nil {
		return
	}
	m.leadsDispatchedTotal.Inc()
}

func (m *SessionMetrics) ObserveTranscriptionFailure() {
	if m == nil {
		return
	}
	m.transcriptionFailures.Inc()
}

func (m *SessionMetrics) ObserveSynthesisFailure() {
	if m == nil {
		return
	}
	m.synthesisFailuresTotal.Inc()
}
