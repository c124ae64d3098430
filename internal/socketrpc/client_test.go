package socketrpc_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tinytelemetry/variantscope/internal/linkview"
	"github.com/tinytelemetry/variantscope/internal/model"
	"github.com/tinytelemetry/variantscope/internal/socketrpc"
)

var errNoSuchCountry = errors.New("no such country")

// mockQuerier is a minimal VariantQuerier for roundtrip testing.
type mockQuerier struct{}

var mockRecords = []model.VariantRecord{
	{Seq: 0, Country: "Afghanistan", Variant: "21J.Delta", GrowthRate: 2.5, Duration: 120, MortalityRate: 0.02, TotalCases: 9000, TotalDeaths: 180,
		FirstSeq: time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC), LastSeq: time.Date(2021, 8, 29, 0, 0, 0, 0, time.UTC)},
	{Seq: 1, Country: "Afghanistan", Variant: "20A.EU2", GrowthRate: 1.1, Duration: 40, MortalityRate: 0.01, TotalCases: 500, TotalDeaths: 5},
}

func (m *mockQuerier) ListCountries() ([]string, error) { return []string{"Afghanistan"}, nil }
func (m *mockQuerier) ListVariants() ([]string, error) {
	return []string{"20A.EU2", "21J.Delta"}, nil
}
func (m *mockQuerier) VariantsInCountry(country string) ([]string, error) {
	if country != "Afghanistan" {
		return nil, nil
	}
	return []string{"20A.EU2", "21J.Delta"}, nil
}
func (m *mockQuerier) TopVariants(country string, metric model.Metric, limit int) ([]model.VariantRecord, error) {
	if limit == 1 {
		return mockRecords[:1], nil
	}
	return mockRecords, nil
}
func (m *mockQuerier) CountryRecords(country string) ([]model.VariantRecord, error) {
	if country != "Afghanistan" {
		return nil, errNoSuchCountry
	}
	return mockRecords, nil
}
func (m *mockQuerier) Summary() (model.DatasetSummary, error) {
	return model.DatasetSummary{Records: 2, Countries: 1, Variants: 2}, nil
}

func startTestServer(t *testing.T) (string, *socketrpc.Server) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "test.sock")
	srv := socketrpc.NewServer(sockPath, &mockQuerier{})
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	return sockPath, srv
}

func TestRoundtrip(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	t.Run("ListCountries", func(t *testing.T) {
		countries, err := client.ListCountries()
		if err != nil {
			t.Fatal(err)
		}
		if len(countries) != 1 || countries[0] != "Afghanistan" {
			t.Fatalf("unexpected countries: %v", countries)
		}
	})

	t.Run("ListVariants", func(t *testing.T) {
		variants, err := client.ListVariants()
		if err != nil {
			t.Fatal(err)
		}
		if len(variants) != 2 {
			t.Fatalf("unexpected variants: %v", variants)
		}
	})

	t.Run("VariantsInCountry", func(t *testing.T) {
		variants, err := client.VariantsInCountry("Afghanistan")
		if err != nil {
			t.Fatal(err)
		}
		if len(variants) != 2 || variants[0] != "20A.EU2" {
			t.Fatalf("unexpected variants: %v", variants)
		}
	})

	t.Run("TopVariants", func(t *testing.T) {
		recs, err := client.TopVariants("Afghanistan", model.MetricTotalCases, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) != 1 || recs[0].Variant != "21J.Delta" {
			t.Fatalf("unexpected records: %v", recs)
		}
	})

	t.Run("CountryRecords", func(t *testing.T) {
		recs, err := client.CountryRecords("Afghanistan")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(mockRecords, recs); diff != "" {
			t.Fatalf("records mismatch (-want +got):\n%s", diff)
		}
		if !recs[1].FirstSeq.IsZero() {
			t.Errorf("unknown date should survive the roundtrip as zero, got %v", recs[1].FirstSeq)
		}
	})

	t.Run("CountryRecordsError", func(t *testing.T) {
		_, err := client.CountryRecords("Atlantis")
		var rpcErr *socketrpc.RPCError
		if !errors.As(err, &rpcErr) || rpcErr.Code != -32000 {
			t.Fatalf("got %v, want application error", err)
		}
	})

	t.Run("Summary", func(t *testing.T) {
		sum, err := client.Summary()
		if err != nil {
			t.Fatal(err)
		}
		if sum.Records != 2 || sum.Countries != 1 {
			t.Fatalf("unexpected summary: %+v", sum)
		}
	})
}

func TestEngineOverSocket(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	snap, err := linkview.New(client, linkview.Options{}).Initial()
	if err != nil {
		t.Fatalf("Initial over socket: %v", err)
	}
	if snap.Selection.Country != "Afghanistan" || snap.Selection.Variant != "20A.EU2" {
		t.Errorf("selection = %+v", snap.Selection)
	}
	if len(snap.Scatter.Points) != 2 {
		t.Errorf("scatter points = %d, want 2", len(snap.Scatter.Points))
	}
}

func TestDialFailure(t *testing.T) {
	_, err := socketrpc.Dial(filepath.Join(t.TempDir(), "nonexistent.sock"))
	if err == nil {
		t.Fatal("expected error dialing nonexistent socket")
	}
}

func TestSecondServerRefused(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	other := socketrpc.NewServer(sockPath, &mockQuerier{})
	if err := other.Start(); err == nil {
		other.Stop()
		t.Fatal("expected second server on the same socket to fail")
	}
}

func TestServerStopCleansSocket(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "cleanup.sock")
	srv := socketrpc.NewServer(sockPath, &mockQuerier{})
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	srv.Stop()

	if _, err := socketrpc.Dial(sockPath); err == nil {
		t.Fatal("expected dial to fail after server stop")
	}
}

func TestStopIdempotent(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "idempotent.sock")
	srv := socketrpc.NewServer(sockPath, &mockQuerier{})
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	srv.Stop()
	srv.Stop()
}

func TestStopClosesConns(t *testing.T) {
	sockPath, srv := startTestServer(t)
	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	// Make sure the connection is being served before stopping.
	if _, err := client.Summary(); err != nil {
		t.Fatalf("Summary: %v", err)
	}

	srv.Stop()

	done := make(chan error, 1)
	go func() {
		_, callErr := client.ListCountries()
		done <- callErr
	}()

	select {
	case callErr := <-done:
		if callErr == nil {
			t.Fatal("expected client call to fail after server stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client call hung after server stop")
	}
}

func TestServeReturnsNilAfterStop(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "serve.sock")
	srv := socketrpc.NewServer(sockPath, &mockQuerier{})
	if err := srv.Listen(); err != nil {
		t.Fatalf("listen: %v", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve() }()

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	if _, err := client.Summary(); err != nil {
		t.Fatalf("Summary: %v", err)
	}

	srv.Stop()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve = %v, want nil after Stop", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Stop")
	}
}

func TestServeBeforeListen(t *testing.T) {
	srv := socketrpc.NewServer(filepath.Join(t.TempDir(), "idle.sock"), &mockQuerier{})
	if err := srv.Serve(); !errors.Is(err, socketrpc.ErrNotListening) {
		t.Fatalf("Serve = %v, want ErrNotListening", err)
	}
}
