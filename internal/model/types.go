package model

import "time"

// VariantRecord is one row of the variant statistics dataset: the figures
// recorded for a single variant within a single country.
type VariantRecord struct {
	Seq           int       `json:"seq"` // row order in the source file
	Country       string    `json:"country"`
	Variant       string    `json:"variant"`
	GrowthRate    float64   `json:"growth_rate"`
	Duration      float64   `json:"duration"` // days between first and last sequence
	MortalityRate float64   `json:"mortality_rate"`
	TotalCases    float64   `json:"total_cases"`
	TotalDeaths   float64   `json:"total_deaths"`
	FirstSeq      time.Time `json:"first_seq"` // zero value = unknown
	LastSeq       time.Time `json:"last_seq"`  // zero value = unknown
}

// DatasetSummary holds headline counts for the loaded dataset.
type DatasetSummary struct {
	Records   int64 `json:"records"`
	Countries int64 `json:"countries"`
	Variants  int64 `json:"variants"`
}
