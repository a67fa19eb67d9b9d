package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/geotag/internal/config"
	"github.com/UnknownOlympus/geotag/internal/fasta"
	"github.com/UnknownOlympus/geotag/internal/logging"
	"github.com/UnknownOlympus/geotag/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg := config.MustLoad()
	logger := logging.Setup(cfg.Env, os.Stderr)

	code := run(ctx, cfg, logger, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, stdout, stderr io.Writer) int {
	var (
		input       string
		outputDir   string
		metricsFile string
		keepHeaders bool
	)

	flags := pflag.NewFlagSet("fastasplit", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&input, "input", "i", "", "path to the input multi-sequence FASTA file (required)")
	flags.StringVarP(&outputDir, "output", "o", cfg.OutputDir, "directory to save the individual sequence files")
	flags.BoolVar(&keepHeaders, "keep-headers", false, "keep the full FASTA record instead of the bare sequence")
	flags.StringVar(&metricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics to this textfile on exit")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}
	if input == "" {
		fmt.Fprintln(stderr, "required flag -i/--input not set")
		flags.PrintDefaults()
		return 1
	}

	reg := prometheus.NewRegistry()
	splitter := fasta.NewSplitter(logger, metrics.NewMetrics(reg), keepHeaders)

	processed, err := splitter.Split(ctx, input, outputDir)
	if metricsFile != "" {
		if mErr := metrics.WriteTextfile(metricsFile, reg); mErr != nil {
			logger.ErrorContext(ctx, "Failed to write metrics", "path", metricsFile, "error", mErr)
		}
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to split FASTA file", "input", input, "processed", processed, "error", err)
		return 1
	}

	fmt.Fprintf(stdout, "\nProcessing complete. %d sequences processed.\n", processed)
	fmt.Fprintf(stdout, "Files saved in: %s\n", outputDir)

	return 0
}
