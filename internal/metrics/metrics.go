package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// StoryMutations counts successful story writes by operation.
	StoryMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stories_mutations_total",
			Help: "Total number of travel story writes by operation",
		},
		[]string{"op"},
	)

	// ImagesDeleted counts image removals by result (deleted, missing, error).
	ImagesDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "images_deleted_total",
			Help: "Total number of image deletions by result",
		},
		[]string{"result"},
	)

	// ImagesSwept counts unreferenced images removed by the sweep job.
	ImagesSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "images_swept_total",
			Help: "Total number of unreferenced images removed by the sweeper",
		},
	)
)

var (
	idPathSegment = regexp.MustCompile(`/([0-9]+|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})(/|$)`)
	initOnce      sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, StoryMutations, ImagesDeleted, ImagesSwept)
	})
}

// NormalizePath reduces cardinality by replacing numeric and uuid path segments with {id}.
// E.g. /edit-story/3f1c...-... -> /edit-story/{id}.
func NormalizePath(path string) string {
	return idPathSegment.ReplaceAllString(path, "/{id}$2")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncStoryMutation records a successful create, update, favourite or delete.
func IncStoryMutation(op string) {
	StoryMutations.WithLabelValues(op).Inc()
}

// IncImagesDeleted records the outcome of an image removal.
func IncImagesDeleted(result string) {
	ImagesDeleted.WithLabelValues(result).Inc()
}

// AddImagesSwept records images removed by one sweep run.
func AddImagesSwept(n int) {
	ImagesSwept.Add(float64(n))
}
