package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/UnknownOlympus/geotag/internal/config"
	"github.com/UnknownOlympus/geotag/internal/exif"
	"github.com/UnknownOlympus/geotag/internal/gps"
	"github.com/UnknownOlympus/geotag/internal/logging"
	"github.com/UnknownOlympus/geotag/internal/metrics"
	"github.com/UnknownOlympus/geotag/internal/models"
	"github.com/UnknownOlympus/geotag/internal/report"
	"github.com/UnknownOlympus/geotag/internal/repository"
	"github.com/UnknownOlympus/geotag/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitNotLocated = 2
)

var errStoreDisabled = errors.New("--store and --list require DB_HOST to be configured")

type options struct {
	format      string
	workers     int
	metricsFile string
	store       bool
	list        int
	paths       []string
}

func main() {
	// Cancel in-flight work on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg := config.MustLoad()
	logger := logging.Setup(cfg.Env, os.Stderr)

	code := run(ctx, cfg, logger, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(cfg, args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	format, err := report.ParseFormat(opts.format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	var repo repository.Interface
	if opts.store || opts.list > 0 {
		if !cfg.Database.Enabled() {
			logger.ErrorContext(ctx, "Cannot use the location store", "error", errStoreDisabled)
			return exitFailure
		}
		dtb, dbErr := repository.NewDatabase(ctx,
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if dbErr != nil {
			logger.ErrorContext(ctx, "Failed to connect to DB", "error", dbErr)
			return exitFailure
		}
		defer dtb.Close()

		pgRepo := repository.NewRepository(dtb, logger)
		if dbErr = pgRepo.EnsureSchema(ctx); dbErr != nil {
			logger.ErrorContext(ctx, "Failed to prepare DB schema", "error", dbErr)
			return exitFailure
		}
		repo = pgRepo
	}

	if opts.list > 0 {
		return listLocations(ctx, logger, repo, format, opts.list, stdout)
	}

	paths, err := collectPaths(opts.paths)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to collect photos", "error", err)
		return exitFailure
	}

	geotag := service.NewGeotagService(
		logger,
		exif.NewReader(logger),
		gps.NewConverter(logger),
		repo,
		appMetrics,
		opts.workers,
	)
	photos := geotag.Process(ctx, paths)

	if err = report.Render(stdout, format, photos); err != nil {
		logger.ErrorContext(ctx, "Failed to render report", "error", err)
		return exitFailure
	}

	if opts.metricsFile != "" {
		if err = metrics.WriteTextfile(opts.metricsFile, reg); err != nil {
			logger.ErrorContext(ctx, "Failed to write metrics", "path", opts.metricsFile, "error", err)
		}
	}

	for _, photo := range photos {
		if photo.Status != models.StatusLocated {
			return exitNotLocated
		}
	}

	return exitOK
}

func parseFlags(cfg *config.Config, args []string, stderr io.Writer) (options, error) {
	var opts options

	flags := pflag.NewFlagSet("geotag", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.format, "format", "f", cfg.Format, "output format: text, json, yaml, utm, mgrs")
	flags.IntVarP(&opts.workers, "workers", "w", cfg.Workers, "number of concurrent workers")
	flags.StringVar(&opts.metricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics to this textfile on exit")
	flags.BoolVar(&opts.store, "store", false, "save located photos to PostgreSQL (DB_* settings)")
	flags.IntVar(&opts.list, "list", 0, "print the N most recently stored locations instead of reading photos")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: geotag [flags] <image|directory>...")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return opts, err
	}

	opts.paths = flags.Args()
	if len(opts.paths) == 0 && opts.list <= 0 {
		flags.Usage()
		return opts, errors.New("no image given")
	}

	return opts, nil
}

func listLocations(
	ctx context.Context,
	logger *slog.Logger,
	repo repository.Interface,
	format report.Format,
	limit int,
	stdout io.Writer,
) int {
	photos, err := repo.FetchLocations(ctx, limit)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch stored locations", "error", err)
		return exitFailure
	}

	if err = report.Render(stdout, format, photos); err != nil {
		logger.ErrorContext(ctx, "Failed to render report", "error", err)
		return exitFailure
	}

	return exitOK
}

// collectPaths expands directory arguments into the JPEG files they contain.
func collectPaths(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// Unreadable files are reported per photo.
			paths = append(paths, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !entry.IsDir() && isJPEG(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", arg, err)
		}
	}

	return paths, nil
}

func isJPEG(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}
