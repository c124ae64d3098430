package linkview

import (
	"fmt"
	"time"

	"github.com/tinytelemetry/variantscope/internal/model"
)

const tooltipDateLayout = "January 02, 2006"

// BarTooltip describes a bar: total deaths when ranking by mortality,
// otherwise the sequencing window.
func BarTooltip(r model.VariantRecord, metric model.Metric) string {
	if metric == model.MetricMortalityRate {
		return fmt.Sprintf("Total Deaths: %.2f", r.TotalDeaths)
	}
	return fmt.Sprintf("Start Date: %s, End Date: %s", tooltipDate(r.FirstSeq), tooltipDate(r.LastSeq))
}

// HeatmapTooltip formats a cell value. Mortality rates are small fractions
// and get five decimals.
func HeatmapTooltip(m model.Metric, value float64) string {
	if m == model.MetricMortalityRate {
		return fmt.Sprintf("Value: %.5f", value)
	}
	return fmt.Sprintf("Value: %.2f", value)
}

func tooltipDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(tooltipDateLayout)
}
