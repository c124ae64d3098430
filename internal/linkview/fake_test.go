package linkview

import (
	"errors"
	"sort"
	"time"

	"github.com/tinytelemetry/variantscope/internal/model"
)

// fakeQuerier answers VariantQuerier calls from a slice and counts the
// heavyweight queries so tests can see what a change rebuilt.
type fakeQuerier struct {
	records  []model.VariantRecord
	err      error
	topCalls int
}

func (f *fakeQuerier) ListCountries() ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.distinct(func(r model.VariantRecord) (string, bool) { return r.Country, true }), nil
}

func (f *fakeQuerier) ListVariants() ([]string, error) {
	return f.distinct(func(r model.VariantRecord) (string, bool) { return r.Variant, true }), nil
}

func (f *fakeQuerier) VariantsInCountry(country string) ([]string, error) {
	return f.distinct(func(r model.VariantRecord) (string, bool) { return r.Variant, r.Country == country }), nil
}

func (f *fakeQuerier) TopVariants(country string, metric model.Metric, limit int) ([]model.VariantRecord, error) {
	f.topCalls++
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
	return model.DatasetSummary{Records: int64(len(f.records))}, nil
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

var errBoom = errors.New("boom")

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func testRecords() []model.VariantRecord {
	return []model.VariantRecord{
		{Seq: 0, Country: "Afghanistan", Variant: "21J.Delta", GrowthRate: 2.5, Duration: 120, MortalityRate: 0.020, TotalCases: 9000, TotalDeaths: 180},
		{Seq: 1, Country: "Afghanistan", Variant: "20A.EU2", GrowthRate: 1.1, Duration: 40, MortalityRate: 0.010, TotalCases: 500, TotalDeaths: 5, FirstSeq: day("2020-10-01"), LastSeq: day("2020-11-10")},
		{Seq: 2, Country: "Afghanistan", Variant: "21F.Iota", GrowthRate: 0.9, Duration: 80, MortalityRate: 0.030, TotalCases: 300, TotalDeaths: 9},
		{Seq: 3, Country: "Brazil", Variant: "20J.Gamma", GrowthRate: 1.7, Duration: 200, MortalityRate: 0.025, TotalCases: 70000, TotalDeaths: 1750},
		{Seq: 4, Country: "Brazil", Variant: "21J.Delta", GrowthRate: 2.1, Duration: 150, MortalityRate: 0.015, TotalCases: 40000, TotalDeaths: 600},
		{Seq: 5, Country: "Chad", Variant: "20B", GrowthRate: 0, Duration: 0, MortalityRate: 0, TotalCases: 0, TotalDeaths: 0},
	}
}
