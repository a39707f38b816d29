package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "usage_telemetry_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	wheelEvents = prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricPrefix + "wheel_events_total",
		Help: "Wheel events accepted by scroll batchers",
	})
	windowsEmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricPrefix + "scroll_windows_total",
		Help: "WindowScrolled records produced by closed windows",
	})
	burstSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    metricPrefix + "scroll_burst_events",
		Help:    "Wheel events per closed window",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
	clientErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricPrefix + "client_errors_total",
		Help: "Client errors reported by pages",
	})
	deliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricPrefix + "feedback_deliveries_total",
		Help: "Feedback deliveries by transport and result",
	}, []string{"transport", "result"})
	sessions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricPrefix + "sessions_total",
		Help: "Page sessions by lifecycle event",
	}, []string{"event"})
)

// Init registers the collectors with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			wheelEvents,
			windowsEmitted,
			burstSize,
			clientErrors,
			deliveries,
			sessions,
		)
	})
}

func ObserveWheelEvent() {
	wheelEvents.Inc()
}

func ObserveWindow(events int) {
	windowsEmitted.Inc()
	burstSize.Observe(float64(events))
}

func ObserveClientError() {
	clientErrors.Inc()
}

func ObserveDelivery(transport, result string) {
	deliveries.WithLabelValues(transport, result).Inc()
}

func ObserveSessionCreated() {
	sessions.WithLabelValues("created").Inc()
}

func ObserveSessionEvicted() {
	sessions.WithLabelValues("evicted").Inc()
}
