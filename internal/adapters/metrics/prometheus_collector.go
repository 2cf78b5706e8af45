package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "dsp_calculator"
	// Subsystem for production tree resolution metrics
	subsystem = "resolver"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalCollector is the singleton resolution metrics collector
	// Set by SetGlobalCollector() when metrics are enabled
	globalCollector ResolutionMetricsRecorder
)

// ResolutionMetricsRecorder defines the interface for recording resolver and catalog events.
// Application code records through the package-level functions below, which are
// no-ops until a collector is installed.
type ResolutionMetricsRecorder interface {
	RecordResolution(resource string, includeRaw bool, status string, trees int, nodes int, duration time.Duration)
	RecordCatalogLoad(source string, recipes int)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// ResetRegistry drops the registry and the global collector
func ResetRegistry() {
	Registry = nil
	globalCollector = nil
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalCollector sets the global metrics collector
func SetGlobalCollector(collector ResolutionMetricsRecorder) {
	globalCollector = collector
}

// RecordResolution records a resolution outcome globally
func RecordResolution(resource string, includeRaw bool, status string, trees int, nodes int, duration time.Duration) {
	if globalCollector != nil {
		globalCollector.RecordResolution(resource, includeRaw, status, trees, nodes, duration)
	}
}

// RecordCatalogLoad records the size of a loaded catalog globally
func RecordCatalogLoad(source string, recipes int) {
	if globalCollector != nil {
		globalCollector.RecordCatalogLoad(source, recipes)
	}
}

// WriteTextfile writes every registered metric to path in the Prometheus text
// format, for pickup by the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if Registry == nil {
		return fmt.Errorf("metrics are not enabled")
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
