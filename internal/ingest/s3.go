package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"driveseq/internal/config"
)

// LoadS3 reads every csv object under the configured prefix and merges them
// into one table. Objects are listed lexically by key, which matches the
// per-day naming used by the snapshot dumps.
func LoadS3(ctx context.Context, cfg config.S3Config, maxFiles int, logger *slog.Logger) (Table, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return Table{}, fmt.Errorf("s3 connect: %w", err)
	}

	var out Table
	loaded := 0
	opts := minio.ListObjectsOptions{Prefix: cfg.Prefix, Recursive: true}
	for obj := range client.ListObjects(ctx, cfg.Bucket, opts) {
		if obj.Err != nil {
			return Table{}, fmt.Errorf("s3 list objects: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".csv") {
			continue
		}
		t, err := readS3Object(ctx, client, cfg.Bucket, obj.Key)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping unreadable object", "key", obj.Key, "error", err)
			}
			continue
		}
		if len(t.Rows) == 0 {
			if logger != nil {
				logger.Warn("skipping empty object", "key", obj.Key)
			}
			continue
		}
		out.Merge(t)
		loaded++
		if logger != nil {
			logger.Debug("loaded object", "key", obj.Key, "rows", len(t.Rows))
		}
		if maxFiles > 0 && loaded >= maxFiles {
			break
		}
	}
	if logger != nil {
		logger.Info("s3 load complete", "bucket", cfg.Bucket, "objects", loaded, "rows", len(out.Rows))
	}
	return out, nil
}

func readS3Object(ctx context.Context, client *minio.Client, bucket, key string) (Table, error) {
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Table{}, fmt.Errorf("s3 get object: %w", err)
	}
	defer obj.Close()
	return ReadCSV(obj)
}
