package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/annotatehq/turkread/internal/logging"
	"github.com/annotatehq/turkread/internal/mturk"
)

// Ingest parses the given results files and stores every record in a
// single transaction. extraRequired is unioned with the configured
// required fields and the fixed hitid/hittypeid pair. The operation is
// all-or-nothing: any unreadable file, any record missing a required
// field, or any database failure leaves the store untouched.
func (s *Service) Ingest(ctx context.Context, paths []string, extraRequired []string) (*IngestResult, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("ingest: no files given")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Ingest.Timeout)
	defer cancel()

	start := time.Now()
	batchID := uuid.New()
	logger := logging.WithFields(ctx, "batch_id", batchID.String())

	required := make([]string, 0, len(s.cfg.Ingest.RequiredFields)+len(extraRequired))
	required = append(required, s.cfg.Ingest.RequiredFields...)
	required = append(required, extraRequired...)

	reader, err := mturk.NewReader(paths,
		mturk.WithRequiredFields(required...),
		mturk.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op once committed.

	files := reader.Files()

	_, err = tx.Exec(ctx,
		`INSERT INTO ingest_batches (id, file_count, record_count) VALUES ($1, $2, $3)`,
		batchID, len(files), reader.Len())
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}

	summaries := make([]FileSummary, 0, len(files))
	for _, f := range files {
		_, err = tx.Exec(ctx,
			`INSERT INTO result_files (batch_id, path, hit_type_id, record_count) VALUES ($1, $2, $3, $4)`,
			batchID, f.Path, textOrNull(f.HITTypeID), f.RecordCount)
		if err != nil {
			return nil, fmt.Errorf("insert file %s: %w", f.Path, err)
		}
		summaries = append(summaries, FileSummary{
			Path:        f.Path,
			HITTypeID:   f.HITTypeID,
			RecordCount: f.RecordCount,
		})
	}

	// Records arrive concatenated in file order; walk the per-file
	// counts to attribute each record to its source file.
	fileIdx, seq := 0, 0
	for rec := range reader.All() {
		for fileIdx < len(files) && seq >= files[fileIdx].RecordCount {
			fileIdx++
			seq = 0
		}

		fields, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode record: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO assignments (batch_id, file_path, seq, hit_id, hit_type_id, fields)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			batchID, files[fileIdx].Path, seq,
			rec[mturk.FieldHITID], rec[mturk.FieldHITTypeID], fields)
		if err != nil {
			return nil, fmt.Errorf("insert record %d of %s: %w", seq, files[fileIdx].Path, err)
		}
		seq++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	result := &IngestResult{
		BatchID:     batchID.String(),
		Files:       summaries,
		RecordCount: reader.Len(),
		Columns:     reader.ColumnNames(),
		Duration:    time.Since(start),
	}

	logger.Info("ingest complete",
		"files", len(files),
		"records", result.RecordCount,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// textOrNull maps an empty string to SQL NULL.
func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
