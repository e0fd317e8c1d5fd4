package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/lorawan-tools/nwksintkeys/internal/config"
)

// Write writes the collected metrics to the configured textfile, to be
// picked up by the node-exporter textfile collector.
func Write(c config.Config) error {
	return WriteGatherer(c, prometheus.DefaultGatherer)
}

// WriteGatherer writes the metrics of the given gatherer.
func WriteGatherer(c config.Config, g prometheus.Gatherer) error {
	if c.Metrics.Prometheus.Textfile == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(c.Metrics.Prometheus.Textfile, g); err != nil {
		return errors.Wrap(err, "write prometheus textfile error")
	}

	log.WithFields(log.Fields{
		"textfile": c.Metrics.Prometheus.Textfile,
	}).Info("metrics: prometheus metrics written")

	return nil
}
