// Package linkview keeps the bar chart, scatter plot and heat map of the
// dashboard consistent with one shared selection.
//
// Every selection change goes through Engine.Apply, which returns a fresh
// immutable Snapshot and the set of views that had to be rebuilt. Views that
// a change does not affect are carried over from the previous snapshot by
// pointer, so callers can skip re-rendering them.
package linkview

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tinytelemetry/variantscope/internal/model"
)

var (
	// ErrEmptyDataset is returned by Initial when the store holds no records.
	ErrEmptyDataset = errors.New("linkview: dataset is empty")
	// ErrUnknownCountry wraps every UnknownCountryError.
	ErrUnknownCountry = errors.New("linkview: unknown country")
	// ErrVariantNotInCountry is returned when a variant is not offered for
	// the selected country.
	ErrVariantNotInCountry = errors.New("linkview: variant not recorded for country")
)

// UnknownCountryError names the rejected country and the closest known one.
type UnknownCountryError struct {
	Country    string
	Suggestion string
}

func (e *UnknownCountryError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("unknown country %q", e.Country)
	}
	return fmt.Sprintf("unknown country %q (did you mean %q?)", e.Country, e.Suggestion)
}

func (e *UnknownCountryError) Unwrap() error { return ErrUnknownCountry }

// Suggest returns the candidate closest to name by case-insensitive edit
// distance, or "" when there are no candidates.
func Suggest(name string, candidates []string) string {
	best, bestDist := "", -1
	lower := strings.ToLower(name)
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Selection is the state shared by every view.
type Selection struct {
	Country string       `json:"country"`
	Variant string       `json:"variant"`
	Metric  model.Metric `json:"metric"`
}

// Snapshot is an immutable bundle of the selection, the selector options and
// the three view models derived from them. Callers must not mutate it.
type Snapshot struct {
	Selection Selection             `json:"selection"`
	Countries []string              `json:"countries"`
	Variants  []string              `json:"variants"` // options of the variant selector
	Records   []model.VariantRecord `json:"records"`  // the country's records in source order
	Bar       *BarView              `json:"bar"`
	Scatter   *ScatterView          `json:"scatter"`
	Heatmap   *HeatmapView          `json:"heatmap"`
}

// SelectedRecord returns the record of the selected variant.
func (s *Snapshot) SelectedRecord() (model.VariantRecord, bool) {
	for _, r := range s.Records {
		if r.Variant == s.Selection.Variant {
			return r, true
		}
	}
	return model.VariantRecord{}, false
}

// Options configures an Engine.
type Options struct {
	DefaultCountry string
	DefaultVariant string
	DefaultMetric  model.Metric
	BarLimit       int
}

// Engine derives snapshots from a VariantQuerier. It holds no selection
// state of its own and is safe for concurrent use when the querier is.
type Engine struct {
	q    model.VariantQuerier
	opts Options
}

// New creates an engine. Zero options fall back to the package defaults.
func New(q model.VariantQuerier, opts Options) *Engine {
	if opts.DefaultMetric == "" {
		opts.DefaultMetric = model.DefaultMetric
	}
	if opts.BarLimit <= 0 {
		opts.BarLimit = model.DefaultBarLimit
	}
	return &Engine{q: q, opts: opts}
}

// Initial builds the first snapshot: the configured default country (or the
// first one), its default variant (or first option) and the default metric.
func (e *Engine) Initial() (*Snapshot, error) {
	countries, err := e.q.ListCountries()
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	if len(countries) == 0 {
		return nil, ErrEmptyDataset
	}

	country := countries[0]
	if contains(countries, e.opts.DefaultCountry) {
		country = e.opts.DefaultCountry
	}
	if _, err := model.ParseMetric(string(e.opts.DefaultMetric)); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Selection: Selection{Country: country, Metric: e.opts.DefaultMetric},
		Countries: countries,
	}
	if err := e.loadCountry(snap, e.opts.DefaultVariant); err != nil {
		return nil, err
	}
	if err := e.rebuild(snap, ViewAll); err != nil {
		return nil, err
	}
	return snap, nil
}

// Resolve builds a snapshot for an explicit selection. An empty variant
// selects the first option and an empty metric the default one.
func (e *Engine) Resolve(sel Selection) (*Snapshot, error) {
	countries, err := e.q.ListCountries()
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	if len(countries) == 0 {
		return nil, ErrEmptyDataset
	}
	if !contains(countries, sel.Country) {
		return nil, &UnknownCountryError{Country: sel.Country, Suggestion: Suggest(sel.Country, countries)}
	}
	if sel.Metric == "" {
		sel.Metric = e.opts.DefaultMetric
	}
	if _, err := model.ParseMetric(string(sel.Metric)); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Selection: Selection{Country: sel.Country, Metric: sel.Metric},
		Countries: countries,
	}
	if err := e.loadCountry(snap, ""); err != nil {
		return nil, err
	}
	if sel.Variant != "" {
		if !contains(snap.Variants, sel.Variant) {
			return nil, fmt.Errorf("%w: %q in %q", ErrVariantNotInCountry, sel.Variant, sel.Country)
		}
		snap.Selection.Variant = sel.Variant
	}
	if err := e.rebuild(snap, ViewAll); err != nil {
		return nil, err
	}
	return snap, nil
}

// Apply derives the snapshot that follows prev after change, together with
// the views that were rebuilt. A change that selects what is already
// selected returns prev itself and no invalidation.
func (e *Engine) Apply(prev *Snapshot, change Change) (*Snapshot, Invalidation, error) {
	if prev == nil {
		return nil, 0, errors.New("linkview: apply on nil snapshot")
	}

	next := *prev
	var inv Invalidation

	switch change.Kind {
	case ChangeCountry:
		if change.Country == prev.Selection.Country {
			return prev, 0, nil
		}
		if !contains(prev.Countries, change.Country) {
			return nil, 0, &UnknownCountryError{Country: change.Country, Suggestion: Suggest(change.Country, prev.Countries)}
		}
		next.Selection.Country = change.Country
		if err := e.loadCountry(&next, ""); err != nil {
			return nil, 0, err
		}
		inv = ViewAll

	case ChangeMetric:
		if change.Metric == prev.Selection.Metric {
			return prev, 0, nil
		}
		if _, err := model.ParseMetric(string(change.Metric)); err != nil {
			return nil, 0, err
		}
		next.Selection.Metric = change.Metric
		inv = ViewAll

	case ChangeVariant, ChangeBar:
		variant := change.Variant
		if variant == prev.Selection.Variant {
			return prev, 0, nil
		}
		if !contains(prev.Variants, variant) {
			return nil, 0, fmt.Errorf("%w: %q in %q", ErrVariantNotInCountry, variant, prev.Selection.Country)
		}
		next.Selection.Variant = variant
		inv = ViewScatter | ViewHeatmap

	default:
		return nil, 0, fmt.Errorf("linkview: unknown change kind %d", change.Kind)
	}

	if err := e.rebuild(&next, inv); err != nil {
		return nil, 0, err
	}
	return &next, inv, nil
}

// loadCountry refreshes the variant options and records of snap's country
// and picks preferred when offered, else the first option.
func (e *Engine) loadCountry(snap *Snapshot, preferred string) error {
	country := snap.Selection.Country
	variants, err := e.q.VariantsInCountry(country)
	if err != nil {
		return fmt.Errorf("variants in %q: %w", country, err)
	}
	records, err := e.q.CountryRecords(country)
	if err != nil {
		return fmt.Errorf("records of %q: %w", country, err)
	}

	snap.Variants = variants
	snap.Records = records
	snap.Selection.Variant = ""
	if contains(variants, preferred) {
		snap.Selection.Variant = preferred
	} else if len(variants) > 0 {
		snap.Selection.Variant = variants[0]
	}
	return nil
}

// rebuild replaces the views named by inv. The others keep their pointers.
func (e *Engine) rebuild(snap *Snapshot, inv Invalidation) error {
	if inv.Has(ViewBar) {
		top, err := e.q.TopVariants(snap.Selection.Country, snap.Selection.Metric, e.opts.BarLimit)
		if err != nil {
			return fmt.Errorf("top variants: %w", err)
		}
		snap.Bar = BuildBar(top, snap.Selection.Metric)
	}
	if inv.Has(ViewScatter) {
		snap.Scatter = BuildScatter(snap.Records, snap.Selection)
	}
	if inv.Has(ViewHeatmap) {
		snap.Heatmap = BuildHeatmap(snap.Records, snap.Selection)
	}
	return nil
}

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
