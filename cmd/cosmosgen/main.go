// Command cosmosgen generates a cosmos offline and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"cosmos-server/internal/cosmos"
	"cosmos-server/internal/shared/config"
	"cosmos-server/internal/shared/logger"
)

type options struct {
	seed       uint64
	minStars   int
	maxStars   int
	tablePath  string
	namesPath  string
	workers    int
	maxBatches int
	statsOnly  bool
	logLevel   string
}

func main() {
	var opts options
	flag.Uint64Var(&opts.seed, "seed", 0, "generation seed")
	flag.IntVar(&opts.minStars, "min", 10, "minimum star count (inclusive)")
	flag.IntVar(&opts.maxStars, "max", 50, "maximum star count (exclusive)")
	flag.StringVar(&opts.tablePath, "table", "configs/star_properties.yaml", "star property table")
	flag.StringVar(&opts.namesPath, "names", "configs/star_names.yaml", "star name list, empty for designations only")
	flag.IntVar(&opts.workers, "workers", 0, "concurrent star subtrees, 0 for GOMAXPROCS")
	flag.IntVar(&opts.maxBatches, "max-batches", 0, "rejection sampler batch cap, 0 for unbounded")
	flag.BoolVar(&opts.statsOnly, "stats", false, "print body counts instead of the full tree")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "cosmosgen:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	log := logger.New(config.LoggingConfig{Level: opts.logLevel}, stderr)

	table, err := cosmos.LoadTable(opts.tablePath)
	if err != nil {
		return err
	}
	names, err := cosmos.LoadNames(opts.namesPath)
	if err != nil {
		return err
	}

	gen := cosmos.NewGenerator(table, names, cosmos.Options{
		MaxBatches: opts.maxBatches,
		Workers:    opts.workers,
	}, log)

	stars, err := gen.Generate(ctx, cosmos.GenerationSettings{
		Seed:      opts.seed,
		StarCount: cosmos.Range{Min: opts.minStars, Max: opts.maxStars},
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")

	if opts.statsOnly {
		return encoder.Encode(cosmos.Statistics(stars))
	}
	return encoder.Encode(stars)
}
