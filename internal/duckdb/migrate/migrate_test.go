package migrate

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	_ "github.com/duckdb/duckdb-go/v2"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRunner(t *testing.T) (*Runner, *sql.DB) {
	t.Helper()
	db := openTestDB(t)
	r, err := NewRunner(db)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r, db
}

func TestUpCreatesVariantsTable(t *testing.T) {
	r, db := newTestRunner(t)

	n, err := r.Up(context.Background())
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if n != r.Latest() {
		t.Errorf("Up ran %d migrations, want %d", n, r.Latest())
	}

	for _, table := range []string{"variants", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT table_name FROM information_schema.tables WHERE table_name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestUpIsIdempotent(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.Up(ctx); err != nil {
		t.Fatalf("first Up: %v", err)
	}
	n, err := r.Up(ctx)
	if err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if n != 0 {
		t.Errorf("second Up ran %d migrations, want 0", n)
	}

	v, err := r.Version(ctx)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != 2 {
		t.Errorf("Version = %d, want 2", v)
	}
}

func TestPendingBeforeAndAfter(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	pending, err := r.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 2 || pending[0].Version != 1 || pending[1].Version != 2 {
		t.Fatalf("Pending before Up = %+v", pending)
	}

	if _, err := r.Up(ctx); err != nil {
		t.Fatalf("Up: %v", err)
	}
	pending, err = r.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Pending after Up = %+v", pending)
	}
}

func TestAppliedListsMigrationNames(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.Up(ctx); err != nil {
		t.Fatalf("Up: %v", err)
	}
	names, err := r.Applied(ctx)
	if err != nil {
		t.Fatalf("Applied: %v", err)
	}
	want := []string{"001_create_variants.sql", "002_variants_country_seq_index.sql"}
	if len(names) != len(want) {
		t.Fatalf("Applied = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Applied[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSchemaAhead(t *testing.T) {
	r, db := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.Up(ctx); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_migrations (version, name) VALUES (99, '099_future.sql')"); err != nil {
		t.Fatalf("insert future version: %v", err)
	}

	if _, err := r.Up(ctx); !errors.Is(err, ErrSchemaAhead) {
		t.Fatalf("Up err = %v, want ErrSchemaAhead", err)
	}
}

func TestParseMigrations(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		want    []int
		wantErr string
	}{
		{
			name: "sorted by version",
			files: fstest.MapFS{
				"m/010_b.sql": {Data: []byte("SELECT 1")},
				"m/002_a.sql": {Data: []byte("SELECT 1")},
				"m/README":    {Data: []byte("ignored")},
			},
			want: []int{2, 10},
		},
		{
			name:    "missing prefix",
			files:   fstest.MapFS{"m/create.sql": {Data: []byte("SELECT 1")}},
			wantErr: "missing version prefix",
		},
		{
			name:    "non-numeric prefix",
			files:   fstest.MapFS{"m/abc_create.sql": {Data: []byte("SELECT 1")}},
			wantErr: "bad version",
		},
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"m/001_a.sql": {Data: []byte("SELECT 1")},
				"m/01_b.sql":  {Data: []byte("SELECT 1")},
			},
			wantErr: "share version 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := parseMigrations(tt.files, "m")
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseMigrations: %v", err)
			}
			if len(steps) != len(tt.want) {
				t.Fatalf("got %d steps, want %d", len(steps), len(tt.want))
			}
			for i, v := range tt.want {
				if steps[i].Version != v {
					t.Errorf("steps[%d].Version = %d, want %d", i, steps[i].Version, v)
				}
			}
		})
	}
}
