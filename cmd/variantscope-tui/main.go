package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tinytelemetry/variantscope/internal/dataset"
	"github.com/tinytelemetry/variantscope/internal/duckdb"
	"github.com/tinytelemetry/variantscope/internal/linkview"
	"github.com/tinytelemetry/variantscope/internal/model"
	"github.com/tinytelemetry/variantscope/internal/socketrpc"
	"github.com/tinytelemetry/variantscope/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var dataPath string
	var socketPath string
	var attach bool
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/variantscope/config.yml)")
	flag.StringVar(&dataPath, "data", "", "variant statistics CSV for the local store (default is the bundled sample)")
	flag.StringVar(&socketPath, "socket", "", "attach to a variantscope service listening on this socket")
	flag.BoolVar(&attach, "attach", false, "attach to the variantscope service on the configured socket")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("variantscope-tui - Variant Dashboard\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if socketPath != "" {
		cfg.SocketPath = socketPath
		attach = true
	}

	if err := runTUI(cfg, attach); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig, attach bool) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	home, _ := os.UserHomeDir()
	configDir := filepath.Join(home, ".config", "variantscope")
	if err := tui.InitializeSkin(cfg.Skin, configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load skin '%s': %v (using default)\n", cfg.Skin, err)
	}

	var querier model.VariantQuerier
	var source string
	if attach {
		client, err := socketrpc.Dial(cfg.SocketPath)
		if err != nil {
			return fmt.Errorf("cannot connect to variantscope service at %s: %w\nIs the service running? Start it with: variantscope", cfg.SocketPath, err)
		}
		defer client.Close()
		querier, source = client, "Socket"
	} else {
		store, err := openLocalStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		querier, source = store, "DuckDB"
	}

	engine := linkview.New(querier, linkview.Options{
		DefaultCountry: cfg.DefaultCountry,
		DefaultVariant: cfg.DefaultVariant,
		DefaultMetric:  model.Metric(cfg.DefaultMetric),
		BarLimit:       cfg.BarLimit,
	})

	dashboard := tui.NewDashboardModel(engine, querier,
		tui.WithReverseScrollWheel(cfg.ReverseScrollWheel),
		tui.WithDataSource(source),
	)
	app := tui.NewApp(tui.NewDashboardPage(dashboard))

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// openLocalStore loads the dataset into an in-memory store owned by this
// process.
func openLocalStore(cfg cliConfig) (*duckdb.Store, error) {
	loaded, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	if len(loaded.Records) == 0 {
		return nil, fmt.Errorf("loading dataset: %w", linkview.ErrEmptyDataset)
	}

	store, err := duckdb.NewStore(cfg.QueryTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	if err := store.InsertVariantBatch(loaded.Records); err != nil {
		store.Close()
		return nil, fmt.Errorf("loading records into DuckDB: %w", err)
	}
	log.Printf("dataset: loaded %d records (%d skipped)", len(loaded.Records), loaded.Skipped)
	return store, nil
}

// configureRuntimeLogger sends log output to a file since the dashboard
// owns the terminal.
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

	f, err := os.OpenFile(filepath.Join(logDir, "variantscope-tui.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}
