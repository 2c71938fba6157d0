// Package metrics exports verification run counts as a Prometheus textfile,
// for collection by the node exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/ontolint/pkg/quality"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector accumulates the metrics of one run on a private registry.
type Collector struct {
	registry *prometheus.Registry
	problems *prometheus.GaugeVec
	datasets prometheus.Gauge
	duration prometheus.Gauge
}

// NewCollector creates a Collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		problems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ontolint",
			Name:      "problems",
			Help:      "Problems found by a check in a dataset during the last run.",
		}, []string{"dataset", "check"}),
		datasets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ontolint",
			Name:      "datasets_total",
			Help:      "Datasets evaluated by the last run.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ontolint",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}
	c.registry.MustRegister(c.problems, c.datasets, c.duration)
	return c
}

// ObserveProblems sets the problem count of check on dataset.
func (c *Collector) ObserveProblems(dataset string, check quality.CheckID, n int) {
	c.problems.WithLabelValues(dataset, check.String()).Set(float64(n))
}

// ObserveRun sets the run totals.
func (c *Collector) ObserveRun(datasets int, d time.Duration) {
	c.datasets.Set(float64(datasets))
	c.duration.Set(d.Seconds())
}

// WriteFile atomically writes the collected metrics to path.
func (c *Collector) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("could not create metrics directory %s: %w", dir, err)
		}
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("could not write metrics file %s: %w", path, err)
	}
	return nil
}
