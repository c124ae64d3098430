package duckdb

import "github.com/tinytelemetry/variantscope/internal/model"

// Type aliases re-export model types used in Store method signatures.
type VariantRecord = model.VariantRecord
type DatasetSummary = model.DatasetSummary
type Metric = model.Metric
