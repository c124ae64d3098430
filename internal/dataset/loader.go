package dataset

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tinytelemetry/variantscope/internal/model"
)

//go:embed sample/surv_variants_cleaned.csv
var sampleCSV string

// Column names expected in the CSV header. Matching is case-insensitive.
const (
	colCountry       = "country"
	colVariant       = "variant"
	colGrowthRate    = "growth_rate"
	colDuration      = "duration"
	colMortalityRate = "mortality_rate"
	colTotalCases    = "total_cases"
	colTotalDeaths   = "total_deaths"
	colFirstSeq      = "first_seq"
	colLastSeq       = "last_seq"
)

var requiredColumns = []string{
	colCountry, colVariant,
	colGrowthRate, colDuration, colMortalityRate, colTotalCases, colTotalDeaths,
	colFirstSeq, colLastSeq,
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("dataset: missing header row")

// Result is the outcome of loading a dataset.
type Result struct {
	Records  []model.VariantRecord
	Skipped  int // rows without a country or variant
	Replaced int // duplicate (country, variant) rows overwritten by a later row
}

// LoadFile reads a dataset CSV from disk.
func LoadFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadDefault reads the sample dataset compiled into the binary.
func LoadDefault() (Result, error) {
	return LoadReader(strings.NewReader(sampleCSV))
}

// Load reads path when set and the embedded sample otherwise.
func Load(path string) (Result, error) {
	if path == "" {
		return LoadDefault()
	}
	return LoadFile(path)
}

// LoadReader parses a dataset CSV. Seq numbers follow row order; a duplicate
// (country, variant) row replaces the earlier one but keeps its Seq.
func LoadReader(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return Result{}, ErrNoHeader
	}
	if err != nil {
		return Result{}, fmt.Errorf("dataset: read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return Result{}, fmt.Errorf("dataset: missing required column %q", col)
		}
	}

	var res Result
	byKey := make(map[string]int) // country\x00variant -> index in res.Records
	seq := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("dataset: %w", err)
		}
		line, _ := reader.FieldPos(0)

		rec, ok, err := parseRow(row, idx, line)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			res.Skipped++
			continue
		}

		key := rec.Country + "\x00" + rec.Variant
		if at, dup := byKey[key]; dup {
			rec.Seq = res.Records[at].Seq
			res.Records[at] = rec
			res.Replaced++
			log.Printf("dataset: line %d replaces earlier row for %s/%s", line, rec.Country, rec.Variant)
			continue
		}

		rec.Seq = seq
		seq++
		byKey[key] = len(res.Records)
		res.Records = append(res.Records, rec)
	}

	return res, nil
}

func parseRow(row []string, idx map[string]int, line int) (model.VariantRecord, bool, error) {
	field := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := model.VariantRecord{
		Country: field(colCountry),
		Variant: field(colVariant),
	}
	if rec.Country == "" || rec.Variant == "" {
		return rec, false, nil
	}

	numbers := []struct {
		col  string
		dest *float64
	}{
		{colGrowthRate, &rec.GrowthRate},
		{colDuration, &rec.Duration},
		{colMortalityRate, &rec.MortalityRate},
		{colTotalCases, &rec.TotalCases},
		{colTotalDeaths, &rec.TotalDeaths},
	}
	for _, n := range numbers {
		v, err := parseNumber(field(n.col))
		if err != nil {
			return rec, false, fmt.Errorf("dataset: line %d column %s: %w", line, n.col, err)
		}
		*n.dest = v
	}

	dates := []struct {
		col  string
		dest *time.Time
	}{
		{colFirstSeq, &rec.FirstSeq},
		{colLastSeq, &rec.LastSeq},
	}
	for _, d := range dates {
		v, err := parseDate(field(d.col))
		if err != nil {
			return rec, false, fmt.Errorf("dataset: line %d column %s: %w", line, d.col, err)
		}
		*d.dest = v
	}

	return rec, true, nil
}

func parseNumber(s string) (float64, error) {
	if s == "" || strings.EqualFold(s, "NA") {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" || strings.EqualFold(s, "NA") {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
