package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"driveseq/internal/config"
	"driveseq/internal/dataset"
	"driveseq/internal/export"
	"driveseq/internal/ingest"
	"driveseq/internal/logging"
	"driveseq/internal/model"
	"driveseq/internal/normalize"
	"driveseq/internal/report"
	"driveseq/internal/sample"
	"driveseq/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file (yaml or json)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	applyEnv(cfg)

	logger, err := logging.NewFileLogger(cfg.LogLevel, config.ResolvePath(cfg.LogFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func applyEnv(cfg *config.Config) {
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		cfg.Data.S3.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		cfg.Data.S3.SecretKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.DSN = v
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	started := time.Now()

	table, err := ingest.Load(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}

	schema, records, err := normalize.Normalize(table, cfg.Data.ModelFilter, logger)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}

	stats := report.NewStats()
	skips := report.NewSkipLog(cfg.SkipLogLimit)
	builder := dataset.NewBuilder(cfg.Dataset, logger, stats, skips)
	ds, err := builder.Build(ctx, schema, records)
	if err != nil {
		return fmt.Errorf("build dataset: %w", err)
	}

	if cfg.Balance.Enabled {
		ds = sample.Balance(ds, cfg.Balance.Ratio, cfg.Balance.Seed, logger)
	}

	buildRun := model.BuildRun{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		SequenceLength: cfg.Dataset.SequenceLength,
		Lookahead:      cfg.Dataset.Lookahead,
		Stats:          stats.Snapshot(),
	}

	if cfg.Split.Enabled {
		train, test := sample.Split(ds, cfg.Split.TestFraction, cfg.Split.Seed, logger)
		if err := export.WriteFile(export.SplitPath(cfg.Output.Path, "train"), cfg.Output.Format, train); err != nil {
			return fmt.Errorf("write train split: %w", err)
		}
		if err := export.WriteFile(export.SplitPath(cfg.Output.Path, "test"), cfg.Output.Format, test); err != nil {
			return fmt.Errorf("write test split: %w", err)
		}
	} else if err := export.WriteFile(cfg.Output.Path, cfg.Output.Format, ds); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	if cfg.Output.ReportPath != "" {
		if err := export.WriteReport(cfg.Output.ReportPath, buildRun, schema, skips.List(0)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	store, err := storage.NewStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	if store != nil {
		defer store.Close()
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		if err := store.SaveRun(ctx, buildRun); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		if err := store.SaveSequences(ctx, buildRun.ID, ds.Sequences); err != nil {
			return fmt.Errorf("save sequences: %w", err)
		}
	}

	st := stats.Snapshot()
	logger.Info("run complete",
		"run_id", buildRun.ID,
		"sequences", len(ds.Sequences),
		"failed", st.FailedSequences,
		"normal", st.NormalSequences,
		"skipped", st.SkippedTotal(),
		"elapsed", time.Since(started).Round(time.Millisecond).String())
	return nil
}
