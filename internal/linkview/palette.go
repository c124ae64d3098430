package linkview

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/tinytelemetry/variantscope/internal/model"
)

// category10 is the ten-colour Tableau palette used for bars.
var category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

const (
	HighlightColor = "#1f77b4"
	MutedColor     = "#7f7f7f"
)

// CategoryColor returns the categorical colour for position i.
func CategoryColor(i int) string {
	if i < 0 {
		i = -i
	}
	return category10[i%len(category10)]
}

type ramp struct{ lo, hi colorful.Color }

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ramps approximate the ColorBrewer sequential schemes by their end points.
var ramps = map[model.Metric]ramp{
	model.MetricTotalDeaths:   {mustHex("#f7fbff"), mustHex("#08306b")}, // Blues
	model.MetricTotalCases:    {mustHex("#fff5eb"), mustHex("#7f2704")}, // Oranges
	model.MetricMortalityRate: {mustHex("#f7fcf5"), mustHex("#00441b")}, // Greens
	model.MetricDuration:      {mustHex("#fff5f0"), mustHex("#67000d")}, // Reds
	model.MetricGrowthRate:    {mustHex("#fcfbfd"), mustHex("#3f007d")}, // Purples
}

// RampColor maps a normalized value onto the metric's sequential ramp.
func RampColor(m model.Metric, norm float64) string {
	r, ok := ramps[m]
	if !ok {
		r = ramp{mustHex("#ffffff"), mustHex("#000000")}
	}
	switch {
	case norm <= 0:
		return r.lo.Hex()
	case norm >= 1:
		return r.hi.Hex()
	}
	return r.lo.BlendLab(r.hi, norm).Clamped().Hex()
}

// TextColorOn picks black or white text for legibility on a hex background.
func TextColorOn(bg string) string {
	c, err := colorful.Hex(bg)
	if err != nil {
		return "#000000"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#ffffff"
}
