package mturk

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"sort"
)

// The two platform fields every result record must carry.
const (
	FieldHITID     = "hitid"
	FieldHITTypeID = "hittypeid"
)

// Option configures a Reader before parsing starts.
type Option func(*Reader)

// WithRequiredFields adds column names that must be present and
// non-empty in every record, on top of the fixed hitid and hittypeid
// fields. A record missing any of them fails the whole construction.
func WithRequiredFields(fields ...string) Option {
	return func(r *Reader) {
		r.required = append(r.required, fields...)
	}
}

// WithLogger sets the logger used for parse diagnostics (per-file record
// counts, inconsistent hittypeid warnings). Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// FileInfo summarizes one parsed results file.
type FileInfo struct {
	// Path is the file path as given to NewReader.
	Path string
	// HITTypeID is the canonical task type for the file: the first
	// hittypeid value seen in its records.
	HITTypeID string
	// RecordCount is the number of records extracted from the file.
	RecordCount int
}

// Reader holds the parsed records of one or more MTurk results files.
// It is immutable after construction and safe for concurrent readers.
type Reader struct {
	records     []Record
	columnNames []string
	files       []FileInfo

	required []string
	logger   *slog.Logger
}

// NewReader parses the given results files in order. Construction is
// all-or-nothing: any unreadable file or any record missing a required
// field aborts with an error and no Reader is returned.
func NewReader(files []string, opts ...Option) (*Reader, error) {
	r := &Reader{
		required: []string{FieldHITID, FieldHITTypeID},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	columns := make(map[string]struct{})

	for _, file := range files {
		if err := r.parseFile(file, columns); err != nil {
			return nil, err
		}
	}

	r.columnNames = make([]string, 0, len(columns))
	for name := range columns {
		r.columnNames = append(r.columnNames, name)
	}
	sort.Strings(r.columnNames)

	return r, nil
}

// parseFile reads one results file and appends its records. The file
// handle is released before the next file starts, on every exit path.
func (r *Reader) parseFile(file string, columns map[string]struct{}) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	records, header, err := r.parse(file, wrapInput(f))
	if err != nil {
		return err
	}

	for _, name := range header {
		columns[name] = struct{}{}
	}

	// First-seen hittypeid is this file's canonical type signal;
	// divergent values are a diagnostic, never an error.
	hitTypeID := ""
	for _, rec := range records {
		typeID := rec[FieldHITTypeID]
		if hitTypeID == "" {
			hitTypeID = typeID
		} else if hitTypeID != typeID {
			r.logger.Warn("several hittypeid values found in file",
				"file", file,
				"canonical", hitTypeID,
				"other", typeID,
			)
		}
	}
	r.files = append(r.files, FileInfo{
		Path:        file,
		HITTypeID:   hitTypeID,
		RecordCount: len(records),
	})

	r.logger.Info("extracted records", "file", file, "count", len(records))
	r.records = append(r.records, records...)

	return nil
}

// parse reassembles logical lines from in, maps the header, and
// extracts the data records.
func (r *Reader) parse(file string, in io.Reader) ([]Record, []string, error) {
	lines, err := reassemble(in)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", file, err)
	}
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("read %s: no complete lines found", file)
	}

	header := headerMapping(lines[0])

	records, err := extractRecords(lines[1:], header, r.required, file, r.logger)
	if err != nil {
		return nil, nil, err
	}
	return records, header, nil
}

// All returns a restartable iterator over every record, in file order
// then line order. Each call yields a fresh iteration from the first
// record; no cursor state lives on the Reader.
func (r *Reader) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range r.records {
			if !yield(rec) {
				return
			}
		}
	}
}

// Len returns the total number of records across all files.
func (r *Reader) Len() int {
	return len(r.records)
}

// ColumnNames returns every distinct column name observed across all
// files, sorted for deterministic enumeration.
func (r *Reader) ColumnNames() []string {
	out := make([]string, len(r.columnNames))
	copy(out, r.columnNames)
	return out
}

// Files returns a per-file summary in the order the files were given
// to NewReader. Record attribution follows from the order: the first
// Files()[0].RecordCount records of All() came from Files()[0].
func (r *Reader) Files() []FileInfo {
	out := make([]FileInfo, len(r.files))
	copy(out, r.files)
	return out
}

// HITTypeIDByFile returns the canonical hittypeid observed per file
// (the first value seen in that file).
func (r *Reader) HITTypeIDByFile() map[string]string {
	out := make(map[string]string, len(r.files))
	for _, f := range r.files {
		out[f.Path] = f.HITTypeID
	}
	return out
}
