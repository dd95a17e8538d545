// ABOUTME: CLI entrypoint for the tauplane complex-function explorer with web and terminal modes.
// ABOUTME: Wires config, the compute client, cycle history, the orchestrator, and signal handling.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/tauplane/compute"
	"github.com/2389-research/tauplane/config"
	"github.com/2389-research/tauplane/history"
	"github.com/2389-research/tauplane/orchestrator"
	"github.com/2389-research/tauplane/tui"
	"github.com/2389-research/tauplane/web"
)

var version = "dev"

// cliConfig holds the parsed command-line flags. Empty strings mean "not set".
type cliConfig struct {
	tuiMode     bool
	configFile  string
	bind        string
	computeURL  string
	dataDir     string
	noHistory   bool
	printConfig bool
	showVersion bool
}

func main() {
	loadDotEnvAuto()

	cli, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cli.showVersion {
		fmt.Printf("tauplane %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cli))
}

// parseFlags parses args into a cliConfig. Usage goes to stderr.
func parseFlags(args []string, stderr io.Writer) (cliConfig, error) {
	var cli cliConfig

	fs := flag.NewFlagSet("tauplane", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cli.tuiMode, "tui", false, "Run the explorer in the terminal instead of serving the web UI")
	fs.StringVar(&cli.configFile, "config", "", "YAML config file (default: $XDG_CONFIG_HOME/tauplane/config.yaml)")
	fs.StringVar(&cli.bind, "bind", "", "Web UI listen address (loopback only, default: 127.0.0.1:7780)")
	fs.StringVar(&cli.computeURL, "compute-url", "", "Base URL of the plot compute service (default: http://127.0.0.1:5000)")
	fs.StringVar(&cli.dataDir, "data-dir", "", "Data directory for cycle history (default: $XDG_DATA_HOME/tauplane)")
	fs.BoolVar(&cli.noHistory, "no-history", false, "Do not record render cycles")
	fs.BoolVar(&cli.printConfig, "print-config", false, "Print the effective configuration as YAML and exit")
	fs.BoolVar(&cli.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "error: unexpected argument %q\n", fs.Arg(0))
		return cliConfig{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return cli, nil
}

// loadConfig resolves file, environment, and flag settings, in increasing precedence.
func loadConfig(cli cliConfig) (config.Config, error) {
	path := cli.configFile
	if path == "" {
		path = os.Getenv("TAUPLANE_CONFIG")
	}
	if path == "" {
		path = defaultConfigFile()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if cli.bind != "" {
		cfg.Bind = cli.bind
	}
	if cli.computeURL != "" {
		cfg.ComputeURL = cli.computeURL
	}
	if cli.dataDir != "" {
		cfg.DataDir = cli.dataDir
	}
	if cli.noHistory {
		cfg.History = false
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// run dispatches to the selected mode and returns the process exit code.
func run(cli cliConfig) int {
	cfg, err := loadConfig(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cli.printConfig {
		if err := writeConfig(os.Stdout, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	store, err := openHistory(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cycle history disabled: %v\n", err)
	}
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cli.tuiMode {
		return runTUI(ctx, cfg, store)
	}
	return runWeb(ctx, cfg, store)
}

// writeConfig encodes cfg as YAML.
func writeConfig(w io.Writer, cfg config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// openHistory opens the cycle history database, or returns nil when history is off.
func openHistory(cfg config.Config) (*history.Store, error) {
	if !cfg.History {
		return nil, nil
	}
	dataDir, err := resolveDataDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := history.Open(filepath.Join(dataDir, "history.db"))
	if err != nil {
		return nil, err
	}
	return store, nil
}

// resolveDataDir returns the data directory to use, preferring an explicit
// override and falling back to the XDG-based default.
func resolveDataDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return defaultDataDir()
}

// newOrchestrator builds the orchestrator shared by both modes.
func newOrchestrator(ctx context.Context, cfg config.Config, r orchestrator.Renderer, store *history.Store) *orchestrator.Orchestrator {
	client := compute.NewClient(cfg.ComputeURL, compute.WithTimeout(cfg.HTTPTimeout))
	opts := []orchestrator.Option{
		orchestrator.WithDiscardStale(cfg.DiscardStale),
		orchestrator.WithDebounce(cfg.Debounce),
		orchestrator.WithBaseContext(ctx),
	}
	if store != nil {
		opts = append(opts, orchestrator.WithRecorder(store))
	}
	return orchestrator.New(client, r, cfg.Defaults, opts...)
}

// runWeb serves the browser explorer until interrupted.
func runWeb(ctx context.Context, cfg config.Config, store *history.Store) int {
	view := web.NewViewRenderer()
	orch := newOrchestrator(ctx, cfg, view, store)
	defer orch.Close()

	serverCfg := web.ServerConfig{
		Addr:         cfg.Bind,
		Orchestrator: orch,
		View:         view,
		Presets:      cfg.Presets,
	}
	if store != nil {
		serverCfg.History = store
	}
	server, err := web.NewServer(serverCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx)
	})
	g.Go(func() error {
		// Initial load. A failed cycle is already shown on the page.
		out, err := orch.Refresh(gctx)
		if err != nil && !errors.Is(err, orchestrator.ErrClosed) && gctx.Err() == nil {
			log.Printf("component=main action=initial_load state=%s err=%v", out.StateName, err)
		}
		return nil
	})

	fmt.Fprintf(os.Stderr, "tauplane %s listening on http://%s (compute: %s)\n", version, cfg.Bind, cfg.ComputeURL)
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runTUI runs the terminal explorer until the user quits.
func runTUI(ctx context.Context, cfg config.Config, store *history.Store) int {
	// The alt screen owns stdout; keep log lines out of it.
	log.SetOutput(io.Discard)

	bridge := tui.NewBridge()
	orch := newOrchestrator(ctx, cfg, bridge, store)
	defer orch.Close()

	model := tui.NewAppModel(ctx, orch, tui.AppOptions{
		Presets:    cfg.Presets,
		ComputeURL: cfg.ComputeURL,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p.Send)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
