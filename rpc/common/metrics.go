package common

import (
	"github.com/VictoriaMetrics/metrics"
)

// Connection counters, exposed through metrics.WritePrometheus
var (
	DirectConnectAttempts   = metrics.NewCounter(`hivemeta_connect_attempts_total{strategy="direct"}`)
	DirectConnectFailures   = metrics.NewCounter(`hivemeta_connect_failures_total{strategy="direct"}`)
	FallbackConnectAttempts = metrics.NewCounter(`hivemeta_connect_attempts_total{strategy="fallback"}`)
	FallbackConnectFailures = metrics.NewCounter(`hivemeta_connect_failures_total{strategy="fallback"}`)
)
