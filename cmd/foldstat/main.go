// Command foldstat reads whitespace-separated numbers and prints their
// moments and a uniform sample, folding chunks of the input concurrently.
//
// Usage:
//
//	foldstat [file]
//	foldstat -version
//
// Chunks containing a malformed number are skipped and reported.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/folds/config"
	"github.com/kbukum/folds/fold"
	"github.com/kbukum/folds/logger"
	"github.com/kbukum/folds/observability"
	"github.com/kbukum/folds/run"
	"github.com/kbukum/folds/stats"
	"github.com/kbukum/folds/stream"
	"github.com/kbukum/folds/version"
)

// Result is the combined output of the moments and the reservoir.
type Result = fold.Pair[stats.Summary, stats.Sampled[float64]]

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, "foldstat:", err)
		os.Exit(1)
	}
}

func execute() error {
	if len(os.Args) > 1 && (os.Args[1] == "-version" || os.Args[1] == "--version") {
		fmt.Println(version.Get())
		return nil
	}

	var cfg Config
	if err := config.LoadConfig("foldstat", &cfg, config.WithEnvPrefix("FOLDSTAT")); err != nil {
		return err
	}
	if len(os.Args) > 1 {
		cfg.Input = os.Args[1]
	}
	if cfg.Telemetry.ServiceVersion == "" {
		cfg.Telemetry.ServiceVersion = version.Get().String()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.WithComponent("foldstat")
	log.Debug("starting", logger.Fields("version", cfg.Telemetry.ServiceVersion, "input", cfg.Input))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn("telemetry shutdown failed", logger.MergeWithError(nil, err))
		}
	}()

	opts := []run.Option{run.WithConfig(cfg.Run), run.WithLogger(log)}
	if cfg.Telemetry.Enabled {
		metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
		if err != nil {
			return err
		}
		opts = append(opts, run.WithMetrics(metrics))
	}

	in, err := openInput(cfg.Input)
	if err != nil {
		return err
	}

	res, rep, err := summarize(ctx, cfg, tokens(in), opts...)
	if err != nil {
		return err
	}
	log.Info("input folded", logger.Fields(
		logger.FieldChunks, rep.Tasks+rep.Dropped,
		logger.FieldDropped, rep.Dropped,
	))
	if rep.Err != nil {
		log.Warn("chunks skipped", logger.MergeWithError(nil, rep.Err))
	}

	printResult(os.Stdout, res)
	return nil
}

// summarize folds the numbers in src in chunks of cfg.Run.ChunkSize.
func summarize(ctx context.Context, cfg Config, src stream.Source[string], opts ...run.Option) (Result, run.Report, error) {
	var sampleOpts []stats.SampleOption
	if cfg.Seed != 0 {
		sampleOpts = append(sampleOpts, stats.WithSeed(cfg.Seed))
	}
	f := fold.Batched(fold.PreMap(
		fold.Par(stats.Moments(), stats.Sample[float64](cfg.SampleSize, sampleOpts...)),
		parseNumber,
	))

	chunks := stream.Chunks(src, cfg.Run.ChunkSize)
	return run.StreamPar(ctx, f, cfg.Run.Concurrency, chunks, opts...)
}

func printResult(w io.Writer, res Result) {
	s := res.Left
	fmt.Fprintf(w, "Summary (%d values)\n", s.N)
	if s.N == 0 {
		return
	}
	fmt.Fprintf(w, " >>     mean: %.3f\n", s.Mean)
	fmt.Fprintf(w, " >>      var: %.3f\n", s.Variance)
	fmt.Fprintf(w, " >>     skew: %.3f\n", s.Skewness)
	fmt.Fprintf(w, " >> kurtosis: %.3f\n", s.Kurtosis)
	if res.Right.Full {
		fmt.Fprintf(w, " >>   sample: %v\n", res.Right.Items)
	} else {
		fmt.Fprintf(w, " >>   values: %v\n", res.Right.Items)
	}
}
