package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/polyhedge/config"
	"github.com/alejandrodnm/polyhedge/internal/adapters/ledger"
	"github.com/alejandrodnm/polyhedge/internal/adapters/notify"
	"github.com/alejandrodnm/polyhedge/internal/adapters/polymarket"
	"github.com/alejandrodnm/polyhedge/internal/adapters/storage"
	"github.com/alejandrodnm/polyhedge/internal/application/engine"
	"github.com/alejandrodnm/polyhedge/internal/domain"
	"github.com/alejandrodnm/polyhedge/internal/ports"
)

// maxRetryWait acota el retry-after del timing gate para no dormir horas
// sin revalidar el mercado activo.
const maxRetryWait = 5 * time.Minute

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one cycle and exit")
	dryRun := flag.Bool("dry-run", false, "simulate fills instead of sending orders")
	report := flag.Bool("report", false, "print the performance report and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *dryRun {
		cfg.Hedger.DryRun = true
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fileLedger := ledger.NewFileLedger(cfg.Ledger.Path)

	history, err := storage.NewSQLiteHistorian(cfg.Ledger.HistoryDSN)
	if err != nil {
		slog.Error("failed to open history db", "err", err, "dsn", cfg.Ledger.HistoryDSN)
		os.Exit(1)
	}
	defer history.Close()

	console := notify.NewConsole()

	if *report {
		if err := runReport(ctx, fileLedger, history, console); err != nil {
			slog.Error("report failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if cfg.Hedger.SeriesSlug == "" {
		slog.Error("no series configured: set hedger.series_slug or ARBITRAGE_SERIES_SLUG")
		os.Exit(1)
	}

	slog.Info("polyhedge starting",
		"config", *configPath,
		"series", cfg.Hedger.SeriesSlug,
		"interval", cfg.PollInterval(),
		"dry_run", cfg.Hedger.DryRun,
		"once", *once,
	)

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase)

	var executor ports.OrderExecutor
	if !cfg.Hedger.DryRun {
		executor, err = polymarket.NewTradingClient(client, credsFromEnv())
		if err != nil {
			slog.Error("live mode needs L2 credentials", "err", err)
			os.Exit(1)
		}
	}

	eng, err := engine.New(engine.Config{
		SeriesSlug: cfg.Hedger.SeriesSlug,
		DryRun:     cfg.Hedger.DryRun,
		Sizing: domain.SizingParams{
			CheapThreshold:      cfg.Hedger.CheapThreshold,
			MispricingThreshold: cfg.Hedger.MispricingThreshold,
			SafetyMargin:        cfg.Hedger.SafetyMargin,
		},
		TieBreak: domain.TieBreak(cfg.Hedger.TieBreak),
	}, client, engine.NewOracle(client, slog.Default()), executor, fileLedger, history, slog.Default())
	if err != nil {
		slog.Error("failed to build engine", "err", err)
		os.Exit(1)
	}

	if err := run(ctx, eng, console, cfg.PollInterval(), *once); err != nil {
		slog.Error("hedger exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("polyhedge stopped cleanly")
}

// run loops RunOnce at the polling cadence until the context is cancelled.
// A cycle error is logged and the loop keeps going; the retry-forever loop
// is the availability mechanism.
func run(ctx context.Context, eng *engine.Engine, console *notify.Console, interval time.Duration, once bool) error {
	for {
		result, err := eng.RunOnce(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			slog.Error("cycle failed", "err", err)
		default:
			console.PrintCycle(result.Market, string(result.Action), result.Decision)
		}

		if once {
			return err
		}

		wait := interval
		if result != nil && result.RetryAfter > wait {
			wait = result.RetryAfter
			if wait > maxRetryWait {
				wait = maxRetryWait
			}
			slog.Debug("entry window closed, backing off", "wait", wait)
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil
		}
	}
}

// credsFromEnv lee las credenciales L2 del entorno (cargadas vía .env por
// config.Load si existe).
func credsFromEnv() polymarket.Creds {
	return polymarket.Creds{
		Address:    os.Getenv("POLY_ADDRESS"),
		APIKey:     os.Getenv("POLY_API_KEY"),
		Secret:     os.Getenv("POLY_SECRET"),
		Passphrase: os.Getenv("POLY_PASSPHRASE"),
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
