package duckdb

import "github.com/tinytelemetry/variantscope/internal/model"

// Type aliases re-export model interfaces so callers wiring a Store can
// depend on this package alone.
type VariantQuerier = model.VariantQuerier
type SchemaQuerier = model.SchemaQuerier
type VariantWriter = model.VariantWriter
type ReadAPI = model.ReadAPI

var (
	_ ReadAPI       = (*Store)(nil)
	_ VariantWriter = (*Store)(nil)
)
