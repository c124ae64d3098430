package linkview

import "github.com/tinytelemetry/variantscope/internal/model"

// Cell is one (metric, variant) square of the heat map.
type Cell struct {
	Variant string       `json:"variant"`
	Metric  model.Metric `json:"metric"`
	Value   float64      `json:"value"`
	Norm    float64      `json:"norm"` // Value scaled into [0,1] over the metric's row
	Color   string       `json:"color"`
	Tooltip string       `json:"tooltip"`
}

// HeatmapView compares every metric across the variants of one country.
// Rows run top to bottom from total deaths down to growth rate.
type HeatmapView struct {
	Variants        []string       `json:"variants"`
	Metrics         []model.Metric `json:"metrics"`
	Rows            [][]Cell       `json:"rows"`
	SelectedVariant string         `json:"selected_variant"`
	SelectedMetric  model.Metric   `json:"selected_metric"`
}

// BuildHeatmap builds the heat map from a country's records in source order.
func BuildHeatmap(records []model.VariantRecord, sel Selection) *HeatmapView {
	v := &HeatmapView{
		SelectedVariant: sel.Variant,
		SelectedMetric:  sel.Metric,
	}

	seen := make(map[string]bool, len(records))
	var cols []model.VariantRecord
	for _, r := range records {
		if seen[r.Variant] {
			continue
		}
		seen[r.Variant] = true
		cols = append(cols, r)
		v.Variants = append(v.Variants, r.Variant)
	}

	for i := len(model.AllMetrics) - 1; i >= 0; i-- {
		m := model.AllMetrics[i]
		v.Metrics = append(v.Metrics, m)
		v.Rows = append(v.Rows, heatmapRow(cols, m))
	}
	return v
}

func heatmapRow(cols []model.VariantRecord, m model.Metric) []Cell {
	row := make([]Cell, len(cols))
	if len(cols) == 0 {
		return row
	}

	lo, hi := m.Value(cols[0]), m.Value(cols[0])
	for _, r := range cols[1:] {
		val := m.Value(r)
		if val < lo {
			lo = val
		}
		if val > hi {
			hi = val
		}
	}

	for i, r := range cols {
		val := m.Value(r)
		norm := 0.5
		if hi > lo {
			norm = (val - lo) / (hi - lo)
		}
		row[i] = Cell{
			Variant: r.Variant,
			Metric:  m,
			Value:   val,
			Norm:    norm,
			Color:   RampColor(m, norm),
			Tooltip: HeatmapTooltip(m, val),
		}
	}
	return row
}

// Column returns the index of variant's column, or -1.
func (v *HeatmapView) Column(variant string) int {
	for i, name := range v.Variants {
		if name == variant {
			return i
		}
	}
	return -1
}

// RowOf returns the index of metric's row, or -1.
func (v *HeatmapView) RowOf(m model.Metric) int {
	for i, name := range v.Metrics {
		if name == m {
			return i
		}
	}
	return -1
}
