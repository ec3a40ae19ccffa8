package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var answerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "answer_duration_seconds",
	Help:    "Total time spent answering one question.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"outcome"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

var answerCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "answer_cache_requests_total",
	Help: "Answer cache lookups labelled hit/miss",
}, []string{"result"})

// HttpStatusRecorder lets the middleware observe the status code a handler
// wrote so it can be attached as a metric label.
type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CaptureDependencyLatency(service string, elapsed time.Duration) {
	dependencyLatency.WithLabelValues(service).Observe(elapsed.Seconds())
}

func CaptureAnswerDuration(outcome string, elapsed time.Duration) {
	answerDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func CountCacheLookup(hit bool) {
	if hit {
		answerCacheHits.WithLabelValues("hit").Inc()
		return
	}
	answerCacheHits.WithLabelValues("miss").Inc()
}
