package pagination

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts paginated requests.
	// Labels: status (HTTP status code), page_range (page bucket: 1-10, 11-50, etc.)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_pagination_requests_total",
			Help: "Total number of pagination requests",
		},
		[]string{"status", "page_range"},
	)

	// PageSize tracks the effective page sizes served.
	PageSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "article_pagination_page_size",
			Help:    "Effective page size of paginated requests",
			Buckets: []float64{1, 5, 10, 20, 30, 40, 50},
		},
	)
)

// RecordRequest records a paginated request.
func RecordRequest(statusCode int, params Params) {
	RequestsTotal.WithLabelValues(
		strconv.Itoa(statusCode),
		getPageRangeBucket(params.Page),
	).Inc()
	PageSize.Observe(float64(params.PageSize))
}

// getPageRangeBucket returns the page range bucket for a given page number.
func getPageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
