package storage

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"driveseq/internal/model"
)

type postgresStore struct {
	baseStore
}

func NewPostgres(dsn string) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "postgres://localhost:5432/driveseq?sslmode=disable"
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &postgresStore{baseStore{db: db}}, nil
}

func (s *postgresStore) Init(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			sequence_length INTEGER NOT NULL,
			lookahead INTEGER NOT NULL,
			stats_json JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sequences (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			serial_number TEXT NOT NULL,
			label TEXT NOT NULL,
			anchor_date DATE NOT NULL,
			rows_json JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sequences_run_label ON sequences(run_id, label)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *postgresStore) SaveRun(ctx context.Context, run model.BuildRun) error {
	if s.db == nil {
		return nil
	}
	ts := run.CreatedAt
	if ts.IsZero() {
		ts = nowUTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, sequence_length, lookahead, stats_json)
		VALUES ($1, $2, $3, $4, $5)`,
		run.ID,
		ts,
		run.SequenceLength,
		run.Lookahead,
		encodeJSON(run.Stats),
	)
	return err
}

func (s *postgresStore) SaveSequences(ctx context.Context, runID string, seqs []model.Sequence) error {
	if s.db == nil || runID == "" || len(seqs) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sequences (run_id, serial_number, label, anchor_date, rows_json)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, seq := range seqs {
		if _, err := stmt.ExecContext(ctx,
			runID,
			seq.Serial,
			string(seq.Label),
			seq.AnchorDate.Format("2006-01-02"),
			encodeJSON(seq.Rows),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
