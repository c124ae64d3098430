package model

import "testing"

func TestParseMetric(t *testing.T) {
	t.Parallel()

	for _, m := range AllMetrics {
		got, err := ParseMetric(string(m))
		if err != nil {
			t.Fatalf("ParseMetric(%q): %v", m, err)
		}
		if got != m {
			t.Errorf("ParseMetric(%q) = %q", m, got)
		}
	}

	if _, err := ParseMetric("deaths; DROP TABLE variants"); err == nil {
		t.Error("ParseMetric accepted an unknown metric")
	}
}

func TestMetricValue(t *testing.T) {
	t.Parallel()

	r := VariantRecord{GrowthRate: 1, Duration: 2, MortalityRate: 3, TotalCases: 4, TotalDeaths: 5}
	want := map[Metric]float64{
		MetricGrowthRate:    1,
		MetricDuration:      2,
		MetricMortalityRate: 3,
		MetricTotalCases:    4,
		MetricTotalDeaths:   5,
	}
	for m, v := range want {
		if got := m.Value(r); got != v {
			t.Errorf("%s.Value = %v, want %v", m, got, v)
		}
	}
	if got := Metric("bogus").Value(r); got != 0 {
		t.Errorf("unknown metric value = %v, want 0", got)
	}
}

func TestMetricColumn_RejectsUnknown(t *testing.T) {
	t.Parallel()

	if _, ok := Metric("total_deaths) OR (1=1").Column(); ok {
		t.Fatal("Column accepted an unknown metric")
	}
	if col, ok := MetricDuration.Column(); !ok || col != "duration" {
		t.Fatalf("Column(duration) = %q, %v", col, ok)
	}
}
