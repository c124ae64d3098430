package linkview

import (
	"github.com/tinytelemetry/variantscope/internal/model"
)

// Bar is one variant in the bar chart.
type Bar struct {
	Variant    string  `json:"variant"`
	Value      float64 `json:"value"`
	ColorIndex int     `json:"color_index"`
	Color      string  `json:"color"`
	Tooltip    string  `json:"tooltip"`
}

// BarView is the top-N variants of a country ranked by one metric.
type BarView struct {
	Metric model.Metric `json:"metric"`
	XLabel string       `json:"x_label"`
	YLabel string       `json:"y_label"`
	YMax   float64      `json:"y_max"`
	Bars   []Bar        `json:"bars"`
}

// BuildBar turns ranked records (highest first) into a bar view. Colours are
// assigned by position, so the same variant can change colour between
// metrics.
func BuildBar(ranked []model.VariantRecord, metric model.Metric) *BarView {
	v := &BarView{
		Metric: metric,
		XLabel: "Variants",
		YLabel: metric.Label(),
		Bars:   make([]Bar, 0, len(ranked)),
	}
	for i, r := range ranked {
		val := metric.Value(r)
		if val > v.YMax {
			v.YMax = val
		}
		v.Bars = append(v.Bars, Bar{
			Variant:    r.Variant,
			Value:      val,
			ColorIndex: i,
			Color:      CategoryColor(i),
			Tooltip:    BarTooltip(r, metric),
		})
	}
	return v
}

// IndexOf returns the position of variant's bar, or -1 when it is not in
// the top N.
func (v *BarView) IndexOf(variant string) int {
	for i, b := range v.Bars {
		if b.Variant == variant {
			return i
		}
	}
	return -1
}

// Span returns the height of the y domain, never less than 1.
func (v *BarView) Span() float64 { return span(v.YMax) }

func span(max float64) float64 {
	if max <= 0 {
		return 1
	}
	return max
}
