package tui

import (
	"sort"
	"testing"

	"github.com/tinytelemetry/variantscope/internal/linkview"
	"github.com/tinytelemetry/variantscope/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// fakeQuerier answers VariantQuerier calls from an in-memory slice.
type fakeQuerier struct {
	records []model.VariantRecord
}

func (f *fakeQuerier) ListCountries() ([]string, error) {
	return f.distinct(func(r model.VariantRecord) (string, bool) { return r.Country, true }), nil
}

func (f *fakeQuerier) ListVariants() ([]string, error) {
	return f.distinct(func(r model.VariantRecord) (string, bool) { return r.Variant, true }), nil
}

func (f *fakeQuerier) VariantsInCountry(country string) ([]string, error) {
	return f.distinct(func(r model.VariantRecord) (string, bool) { return r.Variant, r.Country == country }), nil
}

func (f *fakeQuerier) TopVariants(country string, metric model.Metric, limit int) ([]model.VariantRecord, error) {
	recs, _ := f.CountryRecords(country)
	sort.SliceStable(recs, func(i, j int) bool { return metric.Value(recs[i]) > metric.Value(recs[j]) })
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (f *fakeQuerier) CountryRecords(country string) ([]model.VariantRecord, error) {
	var out []model.VariantRecord
	for _, r := range f.records {
		if r.Country == country {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeQuerier) Summary() (model.DatasetSummary, error) {
	countries, _ := f.ListCountries()
	variants, _ := f.ListVariants()
	return model.DatasetSummary{
		Records:   int64(len(f.records)),
		Countries: int64(len(countries)),
		Variants:  int64(len(variants)),
	}, nil
}

func (f *fakeQuerier) distinct(key func(model.VariantRecord) (string, bool)) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range f.records {
		k, ok := key(r)
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func testRecords() []model.VariantRecord {
	return []model.VariantRecord{
		{Seq: 0, Country: "Afghanistan", Variant: "21J.Delta", GrowthRate: 2.5, Duration: 120, MortalityRate: 0.020, TotalCases: 9000, TotalDeaths: 180},
		{Seq: 1, Country: "Afghanistan", Variant: "20A.EU2", GrowthRate: 1.1, Duration: 40, MortalityRate: 0.010, TotalCases: 500, TotalDeaths: 5},
		{Seq: 2, Country: "Afghanistan", Variant: "21F.Iota", GrowthRate: 0.9, Duration: 80, MortalityRate: 0.030, TotalCases: 300, TotalDeaths: 9},
		{Seq: 3, Country: "Brazil", Variant: "20J.Gamma", GrowthRate: 1.7, Duration: 200, MortalityRate: 0.025, TotalCases: 70000, TotalDeaths: 1750},
		{Seq: 4, Country: "Brazil", Variant: "21J.Delta", GrowthRate: 2.1, Duration: 150, MortalityRate: 0.015, TotalCases: 40000, TotalDeaths: 600},
		{Seq: 5, Country: "Chad", Variant: "20B"},
	}
}

// newTestModel returns a dashboard over the test records, sized for a
// regular terminal, with the initial snapshot already loaded.
func newTestModel(t *testing.T) *DashboardModel {
	t.Helper()

	q := &fakeQuerier{records: testRecords()}
	m := NewDashboardModel(linkview.New(q, linkview.Options{}), q, WithDataSource("DuckDB"))
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	drain(t, m, m.startLoad())

	if m.snapshot == nil {
		t.Fatalf("initial snapshot not loaded (error %q)", m.lastError)
	}
	return m
}

// drain runs cmd and feeds every message it produces back into the model
// until nothing is left. Spinner ticks are dropped so the loop settles.
func drain(t *testing.T, m *DashboardModel, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, SpinnerTickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := m.Update(msg)
			queue = append(queue, next)
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
