package linkview

import "github.com/tinytelemetry/variantscope/internal/model"

// Point is one variant in the scatter plot.
type Point struct {
	Variant     string  `json:"variant"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Highlighted bool    `json:"highlighted"`
	Color       string  `json:"color"`
	Tooltip     string  `json:"tooltip"`
}

// ScatterView plots every variant of a country: the selected metric on x
// against total deaths on y.
type ScatterView struct {
	XLabel string  `json:"x_label"`
	YLabel string  `json:"y_label"`
	XMax   float64 `json:"x_max"`
	YMax   float64 `json:"y_max"`
	Points []Point `json:"points"`
}

// BuildScatter builds the scatter view. The selected variant's point comes
// last so it is drawn over the others.
func BuildScatter(records []model.VariantRecord, sel Selection) *ScatterView {
	v := &ScatterView{
		XLabel: sel.Metric.Label(),
		YLabel: model.MetricTotalDeaths.Label(),
		Points: make([]Point, 0, len(records)),
	}

	var highlighted []Point
	for _, r := range records {
		p := Point{
			Variant: r.Variant,
			X:       sel.Metric.Value(r),
			Y:       r.TotalDeaths,
			Color:   MutedColor,
			Tooltip: r.Variant,
		}
		if p.X > v.XMax {
			v.XMax = p.X
		}
		if p.Y > v.YMax {
			v.YMax = p.Y
		}
		if r.Variant == sel.Variant {
			p.Highlighted = true
			p.Color = HighlightColor
			highlighted = append(highlighted, p)
			continue
		}
		v.Points = append(v.Points, p)
	}
	v.Points = append(v.Points, highlighted...)
	return v
}

// XSpan returns the width of the x domain, never less than 1.
func (v *ScatterView) XSpan() float64 { return span(v.XMax) }

// YSpan returns the height of the y domain, never less than 1.
func (v *ScatterView) YSpan() float64 { return span(v.YMax) }
