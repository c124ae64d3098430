package model

// VariantQuerier provides read-only queries over the variant dataset.
type VariantQuerier interface {
	ListCountries() ([]string, error)
	ListVariants() ([]string, error)
	VariantsInCountry(country string) ([]string, error)
	TopVariants(country string, metric Metric, limit int) ([]VariantRecord, error)
	CountryRecords(country string) ([]VariantRecord, error)
	Summary() (DatasetSummary, error)
}

// SchemaQuerier provides schema introspection and arbitrary read-only queries.
type SchemaQuerier interface {
	ExecuteQuery(query string) ([]map[string]interface{}, error)
	GetSchemaDescription() string
	TableRowCounts() (map[string]int64, error)
}

// VariantWriter loads records into a store.
type VariantWriter interface {
	InsertVariantBatch(records []VariantRecord) error
}

// ReadAPI is the unified read contract for read surfaces (HTTP and socket RPC).
type ReadAPI interface {
	VariantQuerier
	SchemaQuerier
}
