package linkview

import (
	"strings"

	"github.com/tinytelemetry/variantscope/internal/model"
)

// ChangeKind identifies the control that produced a selection change.
type ChangeKind int

const (
	ChangeCountry ChangeKind = iota + 1 // country selector
	ChangeMetric                        // metric selector
	ChangeVariant                       // variant selector, scatter point, heat map column
	ChangeBar                           // bar chart click
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCountry:
		return "country"
	case ChangeMetric:
		return "metric"
	case ChangeVariant:
		return "variant"
	case ChangeBar:
		return "bar"
	}
	return "unknown"
}

// Change is one user interaction against the shared selection.
type Change struct {
	Kind    ChangeKind
	Country string
	Variant string
	Metric  model.Metric
}

// SetCountry selects a country and resets the variant to its first option.
func SetCountry(country string) Change { return Change{Kind: ChangeCountry, Country: country} }

// SetMetric switches the metric every view is drawn against.
func SetMetric(m model.Metric) Change { return Change{Kind: ChangeMetric, Metric: m} }

// SetVariant selects one of the selected country's variants.
func SetVariant(variant string) Change { return Change{Kind: ChangeVariant, Variant: variant} }

// SelectBar records a click on the bar drawn for variant. The bar's variant
// travels with the change so a click queued behind other changes still
// selects what was on screen.
func SelectBar(variant string) Change { return Change{Kind: ChangeBar, Variant: variant} }

// Invalidation is the set of views a change rebuilt.
type Invalidation uint8

const (
	ViewBar Invalidation = 1 << iota
	ViewScatter
	ViewHeatmap

	ViewAll = ViewBar | ViewScatter | ViewHeatmap
)

// Has reports whether every view in v is part of i.
func (i Invalidation) Has(v Invalidation) bool { return i&v == v }

func (i Invalidation) String() string {
	if i == 0 {
		return "none"
	}
	var parts []string
	if i.Has(ViewBar) {
		parts = append(parts, "bar")
	}
	if i.Has(ViewScatter) {
		parts = append(parts, "scatter")
	}
	if i.Has(ViewHeatmap) {
		parts = append(parts, "heatmap")
	}
	return strings.Join(parts, "|")
}
