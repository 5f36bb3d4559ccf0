package mturk

import "strings"

// Format constants for the MTurk results download.
const (
	// Delimiter separates cells within a logical line.
	Delimiter = "\t"
	// Quote wraps every exported field; a doubled quote escapes a
	// literal quote inside field content.
	Quote = `"`
)

// splitCells tokenizes one logical line into cell values. Splitting is
// purely lexical on every tab; quoted fields in this format never
// contain literal tabs. Each segment loses at most one surrounding
// quote on each side, doubled quotes are de-escaped, and the result is
// trimmed. Empty segments are preserved so callers can treat them as
// "no value".
func splitCells(line string) []string {
	segments := strings.Split(line, Delimiter)
	cells := make([]string, len(segments))
	for i, seg := range segments {
		seg = strings.TrimPrefix(seg, Quote)
		seg = strings.TrimSuffix(seg, Quote)
		seg = strings.ReplaceAll(seg, Quote+Quote, Quote)
		cells[i] = strings.TrimSpace(seg)
	}
	return cells
}

// headerMapping tokenizes the header line into an ordered list of column
// names. The cell position doubles as the ordinal key, so the slice index
// is the mapping. Header names are taken as-is: duplicates are neither
// rejected nor renamed.
func headerMapping(headerLine string) []string {
	return splitCells(headerLine)
}
