package metrics

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// all metrics and middlewares for the REST API
var (
	registerOnce sync.Once

	// active REST API connections
	activeRESTConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_rest_connections",
			Help: "Number of active REST API connections",
		},
	)

	// response times for REST APIs
	responseTimeRESTAPI = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restapi_response_time_milliseconds",
			Help:    "REST API response time distributions",
			Buckets: []float64{1, 10, 50, 100, 200, 300, 400, 500},
		},
		[]string{"method", "endpoint"},
	)

	// size of the body for REST APIs
	requestSizeRESTAPI = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restapi_request_size_kilobytes",
			Help:    "REST API request size distributions",
			Buckets: []float64{1, 5, 10, 50, 100, 200, 500},
		},
		[]string{"method", "endpoint"},
	)

	// Number of requests processed by REST API
	RESTRequestMetricsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rest_requests_processed_total",
		Help: "The total number of processed REST requests",
	}, []string{"method", "endpoint"})

	// Number of FastEncrypt message records created
	FastEncryptMessagesCreatedCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fastencrypt_messages_created_total",
		Help: "The total number of FastEncrypt messages initialized",
	})

	// Decrypt attempts by result (ok, forbidden, conflict, not_found, ...)
	FastEncryptDecryptTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fastencrypt_decrypt_total",
		Help: "The total number of FastEncrypt decrypt attempts by result",
	}, []string{"result"})
)

// InitMetrics registers all collectors with the default registry. Safe to call more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			activeRESTConnections,
			responseTimeRESTAPI,
			requestSizeRESTAPI,
			RESTRequestMetricsTotal,
			FastEncryptMessagesCreatedCount,
			FastEncryptDecryptTotal,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// route pattern, not the concrete path
		endpoint := c.FullPath()
		RESTRequestMetricsTotal.WithLabelValues(c.Request.Method, endpoint).Inc()

		start := time.Now()
		activeRESTConnections.Inc()
		defer activeRESTConnections.Dec()

		c.Next()

		if c.Request.ContentLength > 0 {
			requestSizeRESTAPI.WithLabelValues(c.Request.Method, endpoint).Observe(float64(c.Request.ContentLength) / 1024)
		}
		latency := time.Since(start)
		responseTimeRESTAPI.WithLabelValues(c.Request.Method, endpoint).Observe(float64(latency.Milliseconds()))
	}
}
