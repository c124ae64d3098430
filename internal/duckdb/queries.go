package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// dangerousKeywordPattern matches dangerous SQL keywords at word boundaries.
// This avoids false positives like "RESET" matching "SET".
// Used as defense-in-depth after comment stripping and semicolon rejection.
var dangerousKeywordPattern = regexp.MustCompile(
	`(?i)\b(INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|TRUNCATE|COPY|ATTACH|LOAD|EXPORT|IMPORT|INSTALL|CALL|EXECUTE|PRAGMA|SET)\b`,
)

// blockCommentPattern matches C-style block comments (/* ... */).
var blockCommentPattern = regexp.MustCompile(`/\*[\s\S]*?\*/`)

const recordColumns = "seq, country, variant, growth_rate, duration, mortality_rate, total_cases, total_deaths, first_seq, last_seq"

// stripSQLComments removes -- line comments and /* */ block comments from a query.
func stripSQLComments(query string) string {
	cleaned := blockCommentPattern.ReplaceAllString(query, " ")
	var result strings.Builder
	for _, line := range strings.Split(cleaned, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		result.WriteString(line)
		result.WriteByte('\n')
	}
	return result.String()
}

// queryCtx returns a context with the store's configured query timeout.
func (s *Store) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.QueryTimeout)
}

// queryStrings runs a single-column query and collects the values.
func (s *Store) queryStrings(name, query string, args ...interface{}) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			log.Printf("duckdb scan error (%s): %v", name, err)
			continue
		}
		results = append(results, v)
	}
	return results, rows.Err()
}

// queryRecords runs a query selecting recordColumns and scans the rows.
func (s *Store) queryRecords(name, query string, args ...interface{}) ([]VariantRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []VariantRecord
	for rows.Next() {
		var r VariantRecord
		var first, last sql.NullTime
		if err := rows.Scan(&r.Seq, &r.Country, &r.Variant, &r.GrowthRate, &r.Duration, &r.MortalityRate, &r.TotalCases, &r.TotalDeaths, &first, &last); err != nil {
			log.Printf("duckdb scan error (%s): %v", name, err)
			continue
		}
		if first.Valid {
			r.FirstSeq = first.Time
		}
		if last.Valid {
			r.LastSeq = last.Time
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListCountries returns all distinct countries in ascending order.
func (s *Store) ListCountries() ([]string, error) {
	return s.queryStrings("ListCountries", `SELECT DISTINCT country FROM variants ORDER BY country`)
}

// ListVariants returns all distinct variants in ascending order.
func (s *Store) ListVariants() ([]string, error) {
	return s.queryStrings("ListVariants", `SELECT DISTINCT variant FROM variants ORDER BY variant`)
}

// VariantsInCountry returns the variants recorded for a country in ascending order.
func (s *Store) VariantsInCountry(country string) ([]string, error) {
	return s.queryStrings("VariantsInCountry", `SELECT DISTINCT variant FROM variants WHERE country = ? ORDER BY variant`, country)
}

// TopVariants returns the country's records ordered by metric descending.
// A limit <= 0 returns every record.
func (s *Store) TopVariants(country string, metric Metric, limit int) ([]VariantRecord, error) {
	col, ok := metric.Column()
	if !ok {
		return nil, fmt.Errorf("duckdb: unknown metric %q", metric)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM variants
		WHERE country = ?
		ORDER BY %s DESC, seq ASC`, recordColumns, col)

	args := []interface{}{country}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryRecords("TopVariants", query, args...)
}

// CountryRecords returns every record of a country in source order.
func (s *Store) CountryRecords(country string) ([]VariantRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM variants WHERE country = ? ORDER BY seq`, recordColumns)
	return s.queryRecords("CountryRecords", query, country)
}

// Summary returns record, country and variant counts.
func (s *Store) Summary() (DatasetSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var sum DatasetSummary
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT country), COUNT(DISTINCT variant) FROM variants`,
	).Scan(&sum.Records, &sum.Countries, &sum.Variants)
	return sum, err
}

// ExecuteQuery runs a read-only SQL query and returns results as maps.
// Only SELECT/WITH read queries are allowed; DDL/DML is rejected.
func (s *Store) ExecuteQuery(query string) ([]map[string]interface{}, error) {
	trimmed := strings.TrimSpace(query)

	// Reject semicolons to prevent statement chaining.
	if strings.Contains(trimmed, ";") {
		return nil, fmt.Errorf("query must not contain semicolons")
	}

	// Strip SQL comments so keywords hidden in comments are still caught.
	stripped := strings.TrimSpace(stripSQLComments(trimmed))
	upper := strings.ToUpper(stripped)

	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return nil, fmt.Errorf("only SELECT/WITH queries are allowed")
	}

	if match := dangerousKeywordPattern.FindString(stripped); match != "" {
		return nil, fmt.Errorf("query contains disallowed keyword: %s", strings.ToUpper(match))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	maxRows := 1000

	for rows.Next() && len(results) < maxRows {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			log.Printf("duckdb scan error (ExecuteQuery): %v", err)
			continue
		}

		row := make(map[string]interface{})
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// GetSchemaDescription returns a human-readable schema description.
func (s *Store) GetSchemaDescription() string {
	return `Table 'variants': seq (INTEGER, source row order), country (VARCHAR), variant (VARCHAR), ` +
		`growth_rate (DOUBLE), duration (DOUBLE, days), mortality_rate (DOUBLE), ` +
		`total_cases (DOUBLE), total_deaths (DOUBLE), first_seq (DATE), last_seq (DATE). ` +
		`One row per (country, variant).`
}

// TableRowCounts returns the row count for each known table using a hardcoded allowlist.
func (s *Store) TableRowCounts() (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	allowedTables := []string{"variants"}
	counts := make(map[string]int64, len(allowedTables))

	for _, table := range allowedTables {
		var count int64
		// Table names are hardcoded constants, not user input.
		err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
		if err != nil {
			continue
		}
		counts[table] = count
	}
	return counts, nil
}
