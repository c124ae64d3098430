package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tinytelemetry/variantscope/internal/linkview"
	"github.com/tinytelemetry/variantscope/internal/model"
	"github.com/tinytelemetry/variantscope/internal/socketrpc"
)

func TestOpenStore_LoadsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variants.csv")
	csv := "Country,variant,growth_rate,duration,mortality_rate,total_cases,total_deaths,first_seq,last_seq\n" +
		"Brazil,20J.Gamma,1.7,200,0.025,70000,1750,2020-11-03,2021-05-22\n" +
		"Brazil,21J.Delta,2.1,150,0.015,40000,600,2021-05-01,2021-09-28\n" +
		",missing-country,0,0,0,0,0,,\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	store, loaded, err := openStore(path, 5*time.Second)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer store.Close()

	if len(loaded.Records) != 2 || loaded.Skipped != 1 {
		t.Fatalf("loaded %d records, skipped %d; want 2 and 1", len(loaded.Records), loaded.Skipped)
	}
	sum, err := store.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Records != 2 || sum.Countries != 1 {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestOpenStore_EmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("Country,variant,growth_rate,duration,mortality_rate,total_cases,total_deaths,first_seq,last_seq\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := openStore(path, time.Second)
	if !errors.Is(err, linkview.ErrEmptyDataset) {
		t.Fatalf("openStore error = %v, want ErrEmptyDataset", err)
	}
}

func TestOpenStore_BundledSample(t *testing.T) {
	store, loaded, err := openStore("", 5*time.Second)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer store.Close()

	if len(loaded.Records) == 0 {
		t.Fatal("bundled sample has no records")
	}

	engine := linkview.New(store, engineOptions(appConfig{
		DefaultCountry: "Afghanistan",
		DefaultMetric:  string(model.MetricTotalCases),
		BarLimit:       5,
	}))
	snap, err := engine.Initial()
	if err != nil {
		t.Fatalf("Initial: %v", err)
	}
	if snap.Selection.Country != "Afghanistan" || snap.Selection.Metric != model.MetricTotalCases {
		t.Fatalf("selection = %+v", snap.Selection)
	}
	if got := len(snap.Bar.Bars); got > 5 {
		t.Fatalf("bars = %d, want at most 5", got)
	}
}

// blockingService serves until stopped.
type blockingService struct {
	once    sync.Once
	done    chan struct{}
	stopped bool
}

func newBlockingService() *blockingService {
	return &blockingService{done: make(chan struct{})}
}

func (b *blockingService) service(name string) service {
	return service{
		name: name,
		serve: func() error {
			<-b.done
			return nil
		},
		stop: func() {
			b.once.Do(func() {
				b.stopped = true
				close(b.done)
			})
		},
	}
}

func waitServices(t *testing.T, ctx context.Context, services []service) error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- runServices(ctx, services) }()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("runServices did not return")
		return nil
	}
}

func TestRunServices_FailureStopsOthers(t *testing.T) {
	healthy := newBlockingService()
	failing := service{
		name:  "socket",
		serve: func() error { return errors.New("listener closed") },
		stop:  func() {},
	}

	err := waitServices(t, context.Background(), []service{healthy.service("api"), failing})
	if err == nil || !strings.Contains(err.Error(), "socket: listener closed") {
		t.Fatalf("err = %v, want the socket failure", err)
	}
	if !healthy.stopped {
		t.Fatal("healthy service was not stopped after the failure")
	}
}

func TestRunServices_CancelStopsAll(t *testing.T) {
	a, b := newBlockingService(), newBlockingService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := waitServices(t, ctx, []service{a.service("api"), b.service("socket")}); err != nil {
		t.Fatalf("runServices: %v", err)
	}
	if !a.stopped || !b.stopped {
		t.Fatalf("stopped = %v/%v, want both", a.stopped, b.stopped)
	}
}

func TestRunServices_SocketServerShutsDown(t *testing.T) {
	store, _, err := openStore("", 5*time.Second)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer store.Close()

	sock := socketrpc.NewServer(filepath.Join(t.TempDir(), "vs.sock"), store)
	if err := sock.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	err = waitServices(t, ctx, []service{{name: "socket", serve: sock.Serve, stop: sock.Stop}})
	if err != nil {
		t.Fatalf("runServices: %v", err)
	}
}
