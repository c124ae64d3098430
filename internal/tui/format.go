package tui

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/tinytelemetry/variantscope/internal/model"
)

// formatMetric renders a metric value for compact display.
func formatMetric(m model.Metric, v float64) string {
	switch m {
	case model.MetricMortalityRate, model.MetricGrowthRate:
		return fmt.Sprintf("%.4f", v)
	case model.MetricDuration:
		return fmt.Sprintf("%.0fd", v)
	default:
		if math.Abs(v) >= 1000 {
			return humanize.CommafWithDigits(v, 0)
		}
		return fmt.Sprintf("%.2f", v)
	}
}

// formatCount renders an integer with thousands separators.
func formatCount(n int64) string {
	return humanize.Comma(n)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), plural)
}
