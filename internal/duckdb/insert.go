package duckdb

import (
	"context"
	"fmt"
	"log"
	"time"
)

// InsertVariantBatch appends records into DuckDB in a single transaction.
// The dataset is loaded once, so any failure aborts the whole batch.
func (s *Store) InsertVariantBatch(records []VariantRecord) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.QueryTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.insertBatchTx(ctx, records); err != nil {
		return fmt.Errorf("duckdb: insert %d records: %w", len(records), err)
	}
	log.Printf("duckdb: loaded %d variant records", len(records))
	return nil
}

// insertBatchTx inserts records in a single transaction.
func (s *Store) insertBatchTx(ctx context.Context, records []VariantRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO variants (seq, country, variant, growth_rate, duration, mortality_rate, total_cases, total_deaths, first_seq, last_seq) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(
			ctx,
			r.Seq, r.Country, r.Variant,
			r.GrowthRate, r.Duration, r.MortalityRate, r.TotalCases, r.TotalDeaths,
			nullableDate(r.FirstSeq), nullableDate(r.LastSeq),
		); err != nil {
			return fmt.Errorf("record %s/%s: %w", r.Country, r.Variant, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
