// Package core provides the business logic for results-file ingestion.
// It has no HTTP dependencies and can be driven by any frontend.
package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

// FileSummary describes one ingested results file.
type FileSummary struct {
	Path        string `json:"path"`
	HITTypeID   string `json:"hit_type_id,omitempty"`
	RecordCount int    `json:"record_count"`
}

// IngestResult is the outcome of one successful ingest operation.
type IngestResult struct {
	BatchID     string        `json:"batch_id"`
	Files       []FileSummary `json:"files"`
	RecordCount int           `json:"record_count"`
	Columns     []string      `json:"columns"`
	Duration    time.Duration `json:"-"`
}

// StoredRecord is one assignment row read back from the store, in
// file-then-line order.
type StoredRecord map[string]string

// RecordPage is a paginated slice of stored records.
type RecordPage struct {
	Records []StoredRecord `json:"records"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}
