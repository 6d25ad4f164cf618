// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// commentsTotal counts comment mutations.
	// Labels: action (created, edited, deleted)
	commentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "threadline",
		Subsystem: "comments",
		Name:      "total",
		Help:      "Comment mutations by action",
	}, []string{"action"})

	// referencesTotal counts references resolved when comments are saved.
	// Labels: kind (mention, task)
	referencesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "threadline",
		Subsystem: "comments",
		Name:      "references_total",
		Help:      "Mentions and task links resolved at save time",
	}, []string{"kind"})

	// wsClients tracks connected WebSocket clients.
	wsClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "threadline",
		Subsystem: "ws",
		Name:      "clients",
		Help:      "Connected WebSocket clients",
	})

	// httpDuration measures request latency by route template.
	// Labels: route, method, status
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "threadline",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)

// Comment actions.
const (
	ActionCreated = "created"
	ActionEdited  = "edited"
	ActionDeleted = "deleted"
)

// RecordComment records a comment mutation and the references it resolved.
func RecordComment(action string, mentions, linkedTasks int) {
	commentsTotal.WithLabelValues(action).Inc()
	referencesTotal.WithLabelValues("mention").Add(float64(mentions))
	referencesTotal.WithLabelValues("task").Add(float64(linkedTasks))
}

// WSConnected adjusts the connected-client gauge.
func WSConnected(delta int) {
	wsClients.Add(float64(delta))
}

// ObserveRequest records the latency of one HTTP request.
func ObserveRequest(route, method string, status int, d time.Duration) {
	httpDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
