package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/dm/eams-go/internal/config"
	"github.com/dm/eams-go/internal/metrics"
	"github.com/dm/eams-go/internal/report"
	"github.com/dm/eams-go/internal/runner"
	"github.com/dm/eams-go/internal/source"
	"github.com/dm/eams-go/internal/store"
	"github.com/dm/eams-go/internal/tui"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// options are the parsed command-line flags.
type options struct {
	configPath string
	format     string
	xlsx       string
	textfile   string
	workers    int
	tui        bool
	interval   time.Duration
	debug      bool
	target     string
}

const usageText = `usage: eams [flags] <readings.yaml|readings.json|http(s)://url>

examples:
  eams plant.yaml
  eams --format markdown --xlsx pfmea.xlsx plant.yaml
  eams --config eams.yaml --tui --interval 1m https://historian.example.com/api/readings

`

// parseArgs parses args (without the program name). Usage and errors are
// written to stderr.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("eams", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to eams.yaml (defaults are used when empty)")
	fs.StringVar(&opts.format, "format", report.FormatTable, "output format: table, json or markdown")
	fs.StringVar(&opts.xlsx, "xlsx", "", "write the PFMEA workbook to this path")
	fs.StringVar(&opts.textfile, "textfile", "", "write Prometheus textfile metrics to this path")
	fs.IntVar(&opts.workers, "workers", 0, "readings assessed concurrently (overrides config)")
	fs.BoolVar(&opts.tui, "tui", false, "start the interactive dashboard")
	fs.DurationVar(&opts.interval, "interval", 0, "dashboard refresh interval, e.g. 30s (overrides config)")
	fs.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch strings.ToLower(opts.format) {
	case report.FormatTable, report.FormatJSON, report.FormatMarkdown, "md":
	default:
		return opts, fmt.Errorf("unknown --format %q (want table, json or markdown)", opts.format)
	}
	if opts.workers < 0 {
		return opts, errors.New("--workers must not be negative")
	}
	if opts.interval < 0 {
		return opts, errors.New("--interval must be positive")
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return opts, errors.New("readings file or URL is required")
	}
	// flag stops at the first positional argument, so trailing flags would
	// otherwise be silently ignored.
	if len(rest) > 1 {
		extra := rest[1]
		if len(extra) > 1 && extra[0] == '-' {
			return opts, fmt.Errorf("flag %q must be placed before the readings argument", extra)
		}
		return opts, fmt.Errorf("unexpected argument %q", extra)
	}
	opts.target = rest[0]
	return opts, nil
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.workers > 0 {
		cfg.Analysis.Workers = opts.workers
	}
	if opts.interval > 0 {
		if opts.interval < config.MinRefreshInterval {
			return nil, fmt.Errorf("--interval must be at least %s", config.MinRefreshInterval)
		}
		cfg.Analysis.RefreshInterval = opts.interval
	}
	if opts.xlsx != "" {
		cfg.Export.XLSX = opts.xlsx
	}
	if opts.textfile != "" {
		cfg.Export.Textfile = opts.textfile
	}
	return cfg, nil
}

// newLogger builds the process logger. The dashboard owns the terminal, so
// in TUI mode logs go to a file when debugging and are discarded otherwise.
func newLogger(debug, tuiMode bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	if tuiMode {
		if !debug {
			return zap.NewNop(), nil
		}
		zcfg.OutputPaths = []string{"eams-debug.log"}
		zcfg.ErrorOutputPaths = []string{"eams-debug.log"}
	}
	return zcfg.Build()
}

// service wires the readings source, stores and runner for one process.
type service struct {
	cfg     *config.Config
	log     *zap.Logger
	source  source.Source
	cache   store.AnalyticsCache
	history *store.HistoryStore
	metrics *metrics.Registry
	runner  *runner.Runner
}

func newService(ctx context.Context, opts options, cfg *config.Config, log *zap.Logger) (*service, error) {
	src, err := source.New(opts.target, source.HTTPConfig{
		Username:           cfg.Source.Username,
		Password:           cfg.Source.Password,
		InsecureSkipVerify: cfg.Source.InsecureSkipVerify,
		RequestTimeout:     cfg.Source.RequestTimeout,
		RetryCount:         cfg.Source.RetryCount,
	}, log)
	if err != nil {
		return nil, err
	}

	svc := &service{cfg: cfg, log: log, source: src, metrics: metrics.New()}

	svc.cache, err = store.OpenCache(ctx, cfg.Cache, log)
	if err != nil {
		return nil, err
	}

	deps := runner.Deps{Cache: svc.cache, Recorder: svc.metrics, Log: log}
	if cfg.History.DSN != "" {
		svc.history, err = store.OpenHistory(ctx, cfg.History.DSN, log)
		if err != nil {
			svc.Close()
			return nil, err
		}
		if err := svc.history.EnsureSchema(ctx); err != nil {
			svc.Close()
			return nil, err
		}
		deps.History = svc.history
	}

	svc.runner = runner.New(runner.Config{
		Workers:           cfg.Analysis.Workers,
		Context:           cfg.EquipmentContext(),
		ApplyDependencies: cfg.Analysis.ApplyDependencies,
	}, deps)
	return svc, nil
}

// Close releases the cache and history connections.
func (s *service) Close() {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.log.Warn("close cache", zap.Error(err))
		}
	}
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			s.log.Warn("close history", zap.Error(err))
		}
	}
}

// runOnce assesses the readings once, prints the report and writes the
// configured exports.
func (s *service) runOnce(ctx context.Context, format string, stdout io.Writer) error {
	readings, err := s.source.Readings(ctx)
	if err != nil {
		return err
	}
	results, err := s.runner.Run(ctx, readings)
	if err != nil {
		return err
	}
	if err := report.Write(stdout, format, results); err != nil {
		return err
	}

	if path := s.cfg.Export.XLSX; path != "" {
		if err := report.WriteXLSX(path, results); err != nil {
			return err
		}
		s.log.Info("wrote workbook", zap.String("path", path))
	}
	if path := s.cfg.Export.Textfile; path != "" {
		if err := s.metrics.WriteTextfile(path); err != nil {
			return err
		}
		s.log.Info("wrote metrics textfile", zap.String("path", path))
	}
	return nil
}

// runTUI starts the dashboard. Stored history seeds the trend sparklines and
// config file changes are pushed into the running program.
func (s *service) runTUI(ctx context.Context, configPath string) error {
	app := tui.NewApp(s.source, s.runner, s.cfg.Analysis.RefreshInterval)
	if s.history != nil {
		s.seedHistory(ctx, app)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, s.log, func(cfg *config.Config) {
				p.Send(tui.ContextMsg{Context: cfg.EquipmentContext()})
			})
			if err != nil {
				s.log.Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *service) seedHistory(ctx context.Context, app *tui.App) {
	readings, err := s.source.Readings(ctx)
	if err != nil {
		s.log.Warn("seed history: read source", zap.Error(err))
		return
	}
	for _, r := range readings {
		h, err := s.history.HealthHistory(ctx, r.EquipmentID, s.cfg.History.Limit)
		if err != nil {
			s.log.Warn("seed history", zap.String("equipment_id", r.EquipmentID), zap.Error(err))
			continue
		}
		app.SeedHistory(r.EquipmentID, h)
	}
}

// run is main without the os.Exit so it can be tested.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	log, err := newLogger(opts.debug, opts.tui)
	if err != nil {
		fmt.Fprintf(stderr, "error: logger: %v\n", err)
		return exitError
	}
	defer func() { _ = log.Sync() }()

	svc, err := newService(ctx, opts, cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	defer svc.Close()

	if opts.tui {
		err = svc.runTUI(ctx, opts.configPath)
	} else {
		err = svc.runOnce(ctx, opts.format, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
