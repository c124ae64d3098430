package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/tinytelemetry/variantscope/internal/dataset"
	"github.com/tinytelemetry/variantscope/internal/duckdb"
	"github.com/tinytelemetry/variantscope/internal/httpserver"
	"github.com/tinytelemetry/variantscope/internal/linkview"
	"github.com/tinytelemetry/variantscope/internal/model"
	"github.com/tinytelemetry/variantscope/internal/socketrpc"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
)

// runServer loads the dataset and serves it over the socket and HTTP API
// until interrupted.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	store, loaded, err := openStore(cfg.DataPath, cfg.QueryTimeout)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := linkview.New(store, engineOptions(cfg))
	if _, err := engine.Initial(); err != nil {
		return fmt.Errorf("building initial views: %w", err)
	}

	var services []service

	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, store, engine)
		if err := apiServer.Listen(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
		services = append(services, service{
			name:  "api",
			serve: apiServer.Serve,
			stop:  func() { apiServer.Stop() },
		})
	}

	// Socket RPC lets dashboards attach to this process.
	sockServer := socketrpc.NewServer(cfg.SocketPath, store)
	sockEnabled := true
	if err := sockServer.Listen(); err != nil {
		log.Printf("Warning: failed to start socket server: %v", err)
		sockEnabled = false
	} else {
		defer sockServer.Stop()
		services = append(services, service{
			name:  "socket",
			serve: sockServer.Serve,
			stop:  sockServer.Stop,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts at the first signal.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		cleanupSocket(cfg.SocketPath)
		os.Exit(1)
	}()

	printStartupBanner(cfg, loaded, sockEnabled)

	err = runServices(ctx, services)
	signal.Stop(sigCh)
	if err != nil {
		log.Printf("server: %v", err)
		return err
	}
	return nil
}

// service is one serve loop owned by the process.
type service struct {
	name  string
	serve func() error // blocks; nil after stop
	stop  func()
}

// runServices runs every serve loop in one errgroup. Cancelling ctx or any
// loop failing stops all of them; the first failure is returned.
func runServices(ctx context.Context, services []service) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, svc := range services {
		g.Go(func() error {
			if err := svc.serve(); err != nil {
				return fmt.Errorf("%s: %w", svc.name, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		for _, svc := range services {
			svc.stop()
		}
		return nil
	})

	return g.Wait()
}

// openStore loads the dataset and copies it into a fresh in-memory store.
func openStore(dataPath string, queryTimeout time.Duration) (*duckdb.Store, dataset.Result, error) {
	loaded, err := dataset.Load(dataPath)
	if err != nil {
		return nil, loaded, fmt.Errorf("loading dataset: %w", err)
	}
	if len(loaded.Records) == 0 {
		return nil, loaded, fmt.Errorf("loading dataset: %w", linkview.ErrEmptyDataset)
	}
	if loaded.Skipped > 0 || loaded.Replaced > 0 {
		log.Printf("dataset: skipped %d rows, replaced %d duplicates", loaded.Skipped, loaded.Replaced)
	}

	store, err := duckdb.NewStore(queryTimeout)
	if err != nil {
		return nil, loaded, fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	if err := store.InsertVariantBatch(loaded.Records); err != nil {
		store.Close()
		return nil, loaded, fmt.Errorf("loading records into DuckDB: %w", err)
	}
	log.Printf("dataset: loaded %d records", len(loaded.Records))
	return store, loaded, nil
}

func engineOptions(cfg appConfig) linkview.Options {
	return linkview.Options{
		DefaultCountry: cfg.DefaultCountry,
		DefaultVariant: cfg.DefaultVariant,
		DefaultMetric:  model.Metric(cfg.DefaultMetric),
		BarLimit:       cfg.BarLimit,
	}
}

func cleanupSocket(path string) {
	if path != "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("server: remove socket: %v", err)
		}
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "variantscope")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "variantscope.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, loaded dataset.Result, sockEnabled bool) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, "    "+cyan.Bold(true).Render("variantscope")+" "+dim.Render("v"+version))
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")
	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}
	if sockEnabled {
		lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", check, cyan.Render(shortenPath(cfg.SocketPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", dot, dim.Render("unavailable")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Dataset"))
	lines = append(lines, "")
	source := "bundled sample"
	if cfg.DataPath != "" {
		source = shortenPath(cfg.DataPath)
	}
	lines = append(lines, fmt.Sprintf("    %s  Source         %s", check, dim.Render(source)))
	lines = append(lines, fmt.Sprintf("    %s  Records        %s", check, dim.Render(fmt.Sprintf("%d", len(loaded.Records)))))
	if loaded.Skipped > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Skipped        %s", dot, dim.Render(fmt.Sprintf("%d rows", loaded.Skipped))))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
