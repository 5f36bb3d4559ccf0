package core

import (
	"context"
	"fmt"

	"github.com/annotatehq/turkread/internal/config"
)

// Service provides the core business logic for results ingestion.
type Service struct {
	db  DBTX
	cfg *config.Config
}

// NewService creates a new Service instance. db is typically a
// *pgxpool.Pool; tests supply an in-memory DBTX.
func NewService(db DBTX, cfg *config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

// schemaStatements creates the ingest tables. Statements are idempotent
// so EnsureSchema can run on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ingest_batches (
		id           UUID PRIMARY KEY,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		file_count   INTEGER NOT NULL,
		record_count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS result_files (
		id           BIGSERIAL PRIMARY KEY,
		batch_id     UUID NOT NULL REFERENCES ingest_batches(id) ON DELETE CASCADE,
		path         TEXT NOT NULL,
		hit_type_id  TEXT,
		record_count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id           BIGSERIAL PRIMARY KEY,
		batch_id     UUID NOT NULL REFERENCES ingest_batches(id) ON DELETE CASCADE,
		file_path    TEXT NOT NULL,
		seq          INTEGER NOT NULL,
		hit_id       TEXT NOT NULL,
		hit_type_id  TEXT NOT NULL,
		fields       JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS assignments_hit_id_idx ON assignments (hit_id)`,
	`CREATE INDEX IF NOT EXISTS assignments_batch_idx ON assignments (batch_id, file_path, seq)`,
}

// EnsureSchema creates the ingest tables if they do not exist yet.
func (s *Service) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
