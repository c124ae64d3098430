package model

import "time"

// Shared defaults used by both the service and dashboard binaries.
const (
	DefaultMetric       = MetricMortalityRate
	DefaultBarLimit     = 10
	DefaultSkin         = "default"
	DefaultQueryTimeout = 30 * time.Second
)
