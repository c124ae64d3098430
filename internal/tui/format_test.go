package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/tinytelemetry/variantscope/internal/model"
)

func TestFormatMetric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		metric model.Metric
		value  float64
		want   string
	}{
		{model.MetricMortalityRate, 0.0213, "0.0213"},
		{model.MetricGrowthRate, 1.5, "1.5000"},
		{model.MetricDuration, 120, "120d"},
		{model.MetricTotalCases, 70000, "70,000"},
		{model.MetricTotalDeaths, 12.5, "12.50"},
	}
	for _, tt := range tests {
		if got := formatMetric(tt.metric, tt.value); got != tt.want {
			t.Fatalf("formatMetric(%s, %v) = %q, want %q", tt.metric, tt.value, got, tt.want)
		}
	}
}

func TestFormatRecordDetails(t *testing.T) {
	t.Parallel()

	rec := model.VariantRecord{
		Country:       "Brazil",
		Variant:       "20J.Gamma",
		MortalityRate: 0.025,
		FirstSeq:      time.Date(2020, 11, 3, 0, 0, 0, 0, time.UTC),
	}
	out := formatRecordDetails(rec, model.MetricMortalityRate)

	for _, want := range []string{"Brazil", "20J.Gamma", "(plotted)", "November 03, 2020", "unknown"} {
		if !strings.Contains(out, want) {
			t.Fatalf("record details missing %q:\n%s", want, out)
		}
	}
}
