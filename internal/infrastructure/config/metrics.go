package config

// MetricsConfig holds metrics collection configuration.
// The calculator is a batch tool, so metrics are written to a
// node-exporter textfile instead of being served over HTTP.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Textfile is the .prom file written after each run
	Textfile string `mapstructure:"textfile" validate:"required_if=Enabled true"`
}
