// Command strydsync mirrors Stryd activities into a local DuckDB file and
// works with that mirror: listing, export, and raw FIT downloads.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gitjpk/strydcmd/internal/cli"
	"github.com/gitjpk/strydcmd/internal/config"
	"github.com/gitjpk/strydcmd/internal/export"
	"github.com/gitjpk/strydcmd/internal/fitfile"
	"github.com/gitjpk/strydcmd/internal/persistence/duckdb"
	"github.com/gitjpk/strydcmd/internal/stryd"
	"github.com/gitjpk/strydcmd/internal/syncer"
)

const usage = `usage: strydsync <command> [options]

Commands:
  sync [days]        Sync recent activities into the local store
  activities         List stored activities (-limit N caps the listing)
  export <format>    Export activities as csv, json or parquet
  fit [days]         Download raw FIT files for recent activities

Sync and fit options:
  -d YYYYMMDD        Sync a single calendar day instead of a day window
  -force             Refetch activities that are already stored (sync only)
  -batch-size N      Activities per batch (sync only)
  -db PATH           Database file location

Credentials come from STRYD_EMAIL and STRYD_PASSWORD.
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: %v\n", err)
		return 1
	}
	logger := cli.NewLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "sync":
		return runSync(ctx, cfg, logger, args[1:])
	case "activities":
		return runActivities(ctx, cfg, logger, args[1:])
	case "export":
		return runExport(ctx, cfg, logger, args[1:])
	case "fit":
		return runFit(ctx, cfg, logger, args[1:])
	case "help", "-h", "--help":
		fmt.Print(usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "strydsync: unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

// resolveWindow turns the optional positional day count and -d flag into the
// time range a run covers.
func resolveWindow(fs *flag.FlagSet, date string, defaultDays int) (syncer.Window, error) {
	if date != "" {
		return syncer.SingleDay(date)
	}
	days := defaultDays
	if arg := fs.Arg(0); arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed < 1 {
			return syncer.Window{}, fmt.Errorf("invalid day count %q", arg)
		}
		days = parsed
	}
	return syncer.LastDays(time.Now(), days), nil
}

func startMetrics(addr string, logger zerolog.Logger) func() {
	if addr == "" {
		return func() {}
	}
	srv := &http.Server{Addr: addr, Handler: promhttp.Handler()}
	go func() {
		logger.Info().Str("addr", addr).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn().Err(err).Msg("metrics server stopped")
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

func runSync(ctx context.Context, cfg *config.Config, logger zerolog.Logger, args []string) int {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	date := fs.String("d", "", "sync a single day (YYYYMMDD)")
	force := fs.Bool("force", cfg.Sync.Force, "refetch already-stored activities")
	batchSize := fs.Int("batch-size", cfg.Sync.BatchSize, "activities per batch")
	dbPath := fs.String("db", cfg.Database.Path, "database file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *batchSize < 1 {
		fmt.Fprintf(os.Stderr, "strydsync: batch size must be >= 1, got %d\n", *batchSize)
		return 2
	}

	if err := cfg.RequireCredentials(); err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: %v\n", err)
		return 1
	}

	window, err := resolveWindow(fs, *date, cfg.Sync.Days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: %v\n", err)
		return 2
	}

	stopMetrics := startMetrics(cfg.Metrics.Address, logger)
	defer stopMetrics()

	store, err := duckdb.Open(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: %v\n", err)
		return 1
	}
	defer store.Close()

	client := stryd.New(cfg.API, logger)
	summaries, err := client.Calendar(ctx, window.From, window.Until)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: list activities: %v\n", err)
		return 1
	}

	progress := cli.NewProgressPrinter(os.Stdout)
	engine := syncer.New(client, store, syncer.Options{
		BatchSize: *batchSize,
		Force:     *force,
	}, progress, logger)

	// Per-activity failures are reported in the summary but a completed run
	// exits clean, so cron-style wrappers only alarm on runs that could not
	// finish.
	if _, err := engine.Run(ctx, window.Filter(summaries)); err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: sync aborted: %v\n", err)
		return 1
	}

	count, err := store.ActivityCount(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("count stored activities")
		return 0
	}
	progress.StoreTotal(count)
	return 0
}

func runActivities(ctx context.Context, cfg *config.Config, logger zerolog.Logger, args []string) int {
	fs := flag.NewFlagSet("activities", flag.ContinueOnError)
	dbPath := fs.String("db", cfg.Database.Path, "database file")
	limit := fs.Int("limit", 0, "show at most N activities (0 = all)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	store, err := duckdb.Open(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: %v\n", err)
		return 1
	}
	defer store.Close()

	records, err := store.ListRecords(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("list activities")
		return 1
	}

	// Listing shows most recent first; the store returns oldest first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if *limit > 0 && len(records) > *limit {
		records = records[:*limit]
	}
	cli.RenderActivities(os.Stdout, records)
	return 0
}

func runExport(ctx context.Context, cfg *config.Config, logger zerolog.Logger, args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	dbPath := fs.String("db", cfg.Database.Path, "database file")
	output := fs.String("o", "", "output file (default activities.<format>)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	format, err := export.ParseFormat(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: %v\n", err)
		return 2
	}
	path := *output
	if path == "" {
		path = "activities." + string(format)
	}

	store, err := duckdb.Open(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: %v\n", err)
		return 1
	}
	defer store.Close()

	records, err := store.ListRecords(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("list activities")
		return 1
	}
	zones, err := store.ListZones(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("list zones")
		return 1
	}

	out, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: %v\n", err)
		return 1
	}
	defer out.Close()

	if err := export.Write(out, format, export.BuildRecords(records, zones)); err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: export: %v\n", err)
		return 1
	}

	fmt.Printf("Exported %d activities to %s\n", len(records), path)
	return 0
}

func runFit(ctx context.Context, cfg *config.Config, logger zerolog.Logger, args []string) int {
	fs := flag.NewFlagSet("fit", flag.ContinueOnError)
	date := fs.String("d", "", "download a single day (YYYYMMDD)")
	outDir := fs.String("o", cfg.FIT.OutputDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := cfg.RequireCredentials(); err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: %v\n", err)
		return 1
	}

	window, err := resolveWindow(fs, *date, cfg.Sync.Days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: %v\n", err)
		return 2
	}

	client := stryd.New(cfg.API, logger)
	summaries, err := client.Calendar(ctx, window.From, window.Until)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strydsync: list activities: %v\n", err)
		return 1
	}

	downloader := fitfile.NewDownloader(client, *outDir, logger)
	downloaded, failed := 0, 0
	for _, summary := range window.Filter(summaries) {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "strydsync: interrupted: %v\n", err)
			return 1
		}
		path, err := downloader.Download(ctx, summary.ID)
		if err != nil {
			failed++
			fmt.Printf("  failed  %d: %v\n", summary.ID, err)
			continue
		}
		downloaded++
		fmt.Printf("  saved   %s\n", path)
	}

	fmt.Printf("\nDone: %d downloaded, %d failed\n", downloaded, failed)
	return 0
}
