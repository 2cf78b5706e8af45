package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution status label values
const (
	StatusSuccess         = "success"
	StatusUnknownResource = "unknown_resource"
	StatusCancelled       = "cancelled"
)

// unknownResourceLabel replaces the resource label of failed lookups so
// user-typed names cannot grow the label set
const unknownResourceLabel = "(unknown)"

// ResolutionMetricsCollector handles production tree resolution metrics
type ResolutionMetricsCollector struct {
	resolutionsTotal       *prometheus.CounterVec
	treesPerResolution     *prometheus.HistogramVec
	treeNodes              *prometheus.HistogramVec
	resolutionDurationSecs *prometheus.HistogramVec
	catalogRecipes         *prometheus.GaugeVec
}

// NewResolutionMetricsCollector creates a new resolution metrics collector
func NewResolutionMetricsCollector() *ResolutionMetricsCollector {
	return &ResolutionMetricsCollector{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolutions_total",
				Help:      "Total production tree resolutions by outcome",
			},
			[]string{"resource", "include_raw", "status"},
		),

		treesPerResolution: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "trees_per_resolution",
				Help:      "Number of trees in each resolved forest",
				Buckets:   []float64{1, 2, 3, 5, 8},
			},
			[]string{"include_raw"},
		),

		treeNodes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "forest_nodes",
				Help:      "Total nodes across all trees of a resolved forest",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"include_raw"},
		),

		resolutionDurationSecs: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolution_duration_seconds",
				Help:      "Time spent resolving a forest",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"status"},
		),

		catalogRecipes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "recipes",
				Help:      "Number of recipes in the loaded catalog",
			},
			[]string{"source"},
		),
	}
}

// Register registers all resolution metrics with the Prometheus registry
func (c *ResolutionMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.resolutionsTotal,
		c.treesPerResolution,
		c.treeNodes,
		c.resolutionDurationSecs,
		c.catalogRecipes,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordResolution records one resolution outcome. Tree and node counts are
// only observed for successful resolutions. Unknown resources share a single
// resource label.
func (c *ResolutionMetricsCollector) RecordResolution(resource string, includeRaw bool, status string, trees int, nodes int, duration time.Duration) {
	includeRawStr := strconv.FormatBool(includeRaw)
	if status == StatusUnknownResource {
		resource = unknownResourceLabel
	}

	c.resolutionsTotal.WithLabelValues(resource, includeRawStr, status).Inc()
	c.resolutionDurationSecs.WithLabelValues(status).Observe(duration.Seconds())

	if status == StatusSuccess {
		c.treesPerResolution.WithLabelValues(includeRawStr).Observe(float64(trees))
		c.treeNodes.WithLabelValues(includeRawStr).Observe(float64(nodes))
	}
}

// RecordCatalogLoad records the number of recipes loaded from a source
func (c *ResolutionMetricsCollector) RecordCatalogLoad(source string, recipes int) {
	c.catalogRecipes.WithLabelValues(source).Set(float64(recipes))
}
