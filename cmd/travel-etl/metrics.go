package main

import (
	"go.uber.org/zap"

	"travel-etl/internal/config"
	"travel-etl/internal/metrics"
	"travel-etl/internal/metrics/datadog"
	"travel-etl/internal/metrics/prompush"
)

const defaultPushgatewayURL = "http://localhost:9091"

// setupMetrics installs the configured backend and returns the flush to run
// once the pipeline is done. An unusable backend is logged and leaves
// metrics disabled; it never fails the run.
func setupMetrics(p config.Pipeline, log *zap.Logger) func() {
	m := p.Metrics
	var (
		b   metrics.Backend
		err error
	)
	switch m.Backend {
	case "pushgateway":
		url := m.PushgatewayURL
		if url == "" {
			url = defaultPushgatewayURL
		}
		b, err = prompush.NewBackend(p.Job, url)
		log.Info("metrics: pushgateway", zap.String("url", url), zap.String("job", p.Job))
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{Addr: m.DatadogAddr, Namespace: m.Namespace, GlobalTags: m.Tags})
		log.Info("metrics: datadog", zap.String("addr", m.DatadogAddr))
	case "", "none":
		log.Debug("metrics: disabled")
		return func() {}
	default:
		log.Warn("metrics: unknown backend; metrics disabled", zap.String("backend", m.Backend))
		return func() {}
	}
	if err != nil {
		log.Warn("metrics: backend init failed; metrics disabled", zap.String("backend", m.Backend), zap.Error(err))
		return func() {}
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics: flush failed", zap.Error(err))
		}
	}
}
