package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messenger_http_requests_total",
			Help: "Total number of HTTP requests processed by the messenger service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "messenger_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "messenger_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messenger_ws_events_total",
			Help: "Total number of websocket events by name and direction.",
		},
		[]string{"event", "direction"},
	)
	wsDroppedEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messenger_ws_dropped_events_total",
			Help: "Inbound websocket events discarded without processing.",
		},
		[]string{"reason"},
	)
	persistErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messenger_message_persist_errors_total",
			Help: "Message store write failures on the real-time path.",
		},
		[]string{"kind"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messenger_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		wsDroppedEventsTotal,
		persistErrorsTotal,
		amqpPublishErrorsTotal,
	)
}

// HTTPMetricsMiddleware records request counts and latency per route.
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event, direction string) {
	wsEventsTotal.WithLabelValues(event, direction).Inc()
}

func IncDroppedEvent(reason string) {
	wsDroppedEventsTotal.WithLabelValues(reason).Inc()
}

func IncPersistError(kind string) {
	persistErrorsTotal.WithLabelValues(kind).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
