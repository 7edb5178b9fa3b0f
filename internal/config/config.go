// Package config defines threadplot configuration and how it is loaded.
//
// Defaults reproduce the fixed directory convention: ../results, .txt in,
// .pdf out, stop on the first failing job.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ResultsDir is walked for job files.
	ResultsDir string `koanf:"results_dir"`

	// InputExt and OutputExt are appended to a job identifier to form paths.
	InputExt  string `koanf:"input_ext"`
	OutputExt string `koanf:"output_ext"`

	// FailFast stops the run at the first failing job. When false every job
	// is attempted and failures are reported together.
	FailFast bool `koanf:"fail_fast"`

	// WidthIn and HeightIn are the page size in inches.
	WidthIn  float64 `koanf:"width_in"`
	HeightIn float64 `koanf:"height_in"`

	// MetricsFile, when set, receives a Prometheus textfile after the run.
	MetricsFile string `koanf:"metrics_file"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:   "info",
		ResultsDir: "../results",
		InputExt:   ".txt",
		OutputExt:  ".pdf",
		FailFast:   true,
		WidthIn:    6.4,
		HeightIn:   4.8,
	}
}
