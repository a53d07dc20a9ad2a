// Command seed loads a YAML fixture file into the configured backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cyber924/taebaek/internal/di"
	"github.com/cyber924/taebaek/internal/platform/config"
	"github.com/cyber924/taebaek/internal/platform/observability"
	"github.com/cyber924/taebaek/internal/seed"
)

func main() {
	path := flag.String("file", "data/seed.yaml", "seed file to apply")
	flag.Parse()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	logger = logger.Named("seed")

	ctx := observability.WithLogger(context.Background(), logger)
	if err := run(ctx, *path); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, path string) error {
	logger := observability.FromContext(ctx)
	file, err := seed.LoadFile(path)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	// The container applies BACKEND_SEED_FILE itself; only the flag's file is applied here.
	cfg.Backend.SeedFile = ""

	container, err := di.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(context.Background()); err != nil {
			logger.Warn("backend close error", zap.Error(err))
		}
	}()

	res, err := seed.Apply(ctx, container.Services, file, logger)
	if err != nil {
		return err
	}
	fmt.Printf("dongs=%d places=%d visits=%d skipped=%d\n", res.Dongs, res.Places, res.Visits, res.Skipped)
	return nil
}
