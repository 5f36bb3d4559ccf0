package mturk

import (
	"fmt"
	"log/slog"
)

// Record is one parsed result row, keyed by column name. Keys exist only
// for cells that were non-empty after trimming.
type Record map[string]string

// ValidationError reports a record that is missing a required field.
// Construction of the owning Reader fails with this error; no partial
// results are returned.
type ValidationError struct {
	File   string
	Field  string
	Record Record
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("mturk: required field %q missing in record %v in file %s",
		e.Field, e.Record, e.File)
}

// extractRecords builds one Record per data line. Cells beyond the
// header width are ignored; the exporter guarantees equal cell counts
// per row, so extra cells only appear in hand-edited files and carry no
// column name to attach to.
func extractRecords(lines []string, header []string, required []string, file string, logger *slog.Logger) ([]Record, error) {
	records := make([]Record, 0, len(lines))

	for lineNo, line := range lines {
		cells := splitCells(line)

		record := make(Record, len(cells))
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			if i >= len(header) {
				logger.Debug("ignoring cell beyond header width",
					"file", file,
					"line", lineNo+2,
					"position", i,
				)
				continue
			}
			record[header[i]] = cell
		}

		for _, field := range required {
			if _, ok := record[field]; !ok {
				return nil, &ValidationError{File: file, Field: field, Record: record}
			}
		}

		records = append(records, record)
	}

	return records, nil
}
