package model

import "fmt"

// Metric names one numeric column of a VariantRecord.
type Metric string

const (
	MetricGrowthRate    Metric = "growth_rate"
	MetricDuration      Metric = "duration"
	MetricMortalityRate Metric = "mortality_rate"
	MetricTotalCases    Metric = "total_cases"
	MetricTotalDeaths   Metric = "total_deaths"
)

// AllMetrics lists every metric in heat map row order (bottom to top).
var AllMetrics = []Metric{
	MetricGrowthRate,
	MetricDuration,
	MetricMortalityRate,
	MetricTotalCases,
	MetricTotalDeaths,
}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	for _, m := range AllMetrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Column returns the store column backing the metric. Only valid metrics
// map to a column, so the result is safe to interpolate into SQL.
func (m Metric) Column() (string, bool) {
	for _, known := range AllMetrics {
		if m == known {
			return string(m), true
		}
	}
	return "", false
}

// Value extracts the metric's value from a record.
func (m Metric) Value(r VariantRecord) float64 {
	switch m {
	case MetricGrowthRate:
		return r.GrowthRate
	case MetricDuration:
		return r.Duration
	case MetricMortalityRate:
		return r.MortalityRate
	case MetricTotalCases:
		return r.TotalCases
	case MetricTotalDeaths:
		return r.TotalDeaths
	default:
		return 0
	}
}

// Label is the axis label used when the metric is plotted.
func (m Metric) Label() string {
	switch m {
	case MetricGrowthRate:
		return "Growth Rate"
	case MetricDuration:
		return "Life Span (Days)"
	case MetricMortalityRate:
		return "Mortality Rate (%)"
	case MetricTotalCases:
		return "Total Cases"
	case MetricTotalDeaths:
		return "Total Deaths"
	default:
		return string(m)
	}
}

// ShortLabel is a compact name for narrow columns.
func (m Metric) ShortLabel() string {
	switch m {
	case MetricGrowthRate:
		return "growth"
	case MetricDuration:
		return "duration"
	case MetricMortalityRate:
		return "mortality"
	case MetricTotalCases:
		return "cases"
	case MetricTotalDeaths:
		return "deaths"
	default:
		return string(m)
	}
}
