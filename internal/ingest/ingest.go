package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"driveseq/internal/config"
)

// Load pulls raw snapshot rows from the configured source and verifies that
// the columns the pipeline depends on are present.
func Load(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Table, error) {
	var (
		t   Table
		err error
	)
	switch cfg.Data.Source {
	case "file":
		if cfg.Data.Path != "" {
			t, err = ReadCSVFile(cfg.Data.Path)
		} else {
			t, err = LoadDir(cfg.Data.BaseDir, cfg.Data.Year, cfg.Data.Quarters, cfg.Data.MaxFiles, logger)
		}
	case "s3":
		t, err = LoadS3(ctx, cfg.Data.S3, cfg.Data.MaxFiles, logger)
	case "kafka":
		t, err = LoadKafka(ctx, cfg.Data.Kafka, logger)
	default:
		err = fmt.Errorf("unsupported data source %q", cfg.Data.Source)
	}
	if err != nil {
		return Table{}, err
	}
	if err := t.CheckRequired(); err != nil {
		return Table{}, err
	}
	return t, nil
}
