package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"driveseq/internal/config"
)

const kafkaIdleTimeout = 10 * time.Second

// LoadKafka consumes up to MaxRecords json records from the topic, one daily
// snapshot row per message. Consumption ends early when the context is
// cancelled or no message arrives within the idle timeout, so a drained
// topic does not stall the build.
func LoadKafka(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (Table, error) {
	if logger != nil {
		logger.Info("kafka consume started", "brokers", cfg.Brokers, "topic", cfg.Topic, "group_id", cfg.GroupID)
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	cols := make([]string, 0, 96)
	colIdx := make(map[string]int)
	rows := make([][]string, 0)

	for cfg.MaxRecords <= 0 || len(rows) < cfg.MaxRecords {
		readCtx, cancel := context.WithTimeout(ctx, kafkaIdleTimeout)
		msg, err := reader.ReadMessage(readCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			return Table{}, fmt.Errorf("kafka read: %w", err)
		}
		var rec map[string]any
		if err := json.Unmarshal(msg.Value, &rec); err != nil {
			if logger != nil {
				logger.Warn("skipping malformed message", "offset", msg.Offset, "error", err)
			}
			continue
		}
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := colIdx[k]; !ok {
				colIdx[k] = len(cols)
				cols = append(cols, k)
			}
		}
		row := make([]string, len(cols))
		for _, k := range keys {
			row[colIdx[k]] = stringify(rec[k])
		}
		rows = append(rows, row)
	}

	for i, row := range rows {
		if len(row) < len(cols) {
			rows[i] = append(row, make([]string, len(cols)-len(row))...)
		}
	}
	if logger != nil {
		logger.Info("kafka load complete", "topic", cfg.Topic, "rows", len(rows))
	}
	return Table{Columns: cols, Rows: rows}, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(x)
	}
}
