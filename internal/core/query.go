package core

import (
	"context"
	"encoding/json"
	"fmt"
)

// MaxPageSize caps the number of records returned per query.
const MaxPageSize = 1000

// Columns returns every distinct column name observed across all
// ingested files, sorted.
func (s *Service) Columns(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT DISTINCT jsonb_object_keys(fields) AS name FROM assignments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	return columns, nil
}

// Files returns a summary of every ingested file, in ingestion order.
func (s *Service) Files(ctx context.Context) ([]FileSummary, error) {
	rows, err := s.db.Query(ctx,
		`SELECT path, COALESCE(hit_type_id, ''), record_count FROM result_files ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	var files []FileSummary
	for rows.Next() {
		var f FileSummary
		if err := rows.Scan(&f.Path, &f.HITTypeID, &f.RecordCount); err != nil {
			return nil, fmt.Errorf("scan file summary: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read files: %w", err)
	}
	return files, nil
}

// Records returns a page of stored records in file-then-line order.
func (s *Service) Records(ctx context.Context, limit, offset int) (*RecordPage, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM assignments`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT fields FROM assignments ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]StoredRecord, 0, limit)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var rec StoredRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	return &RecordPage{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// clampLimit normalizes a caller-supplied page size.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}
