// Package mturk parses the tab-separated results files downloaded from
// Amazon Mechanical Turk.
//
// The download is not RFC 4180 CSV: every field is double-quoted, quotes
// inside a field are escaped by doubling, and a record whose field content
// contains a newline is wrapped across multiple physical lines. The parser
// reassembles logical lines with a quote-boundary heuristic, tokenizes
// them on tabs, maps cell positions to the header row, and exposes each
// record as a map from column name to value.
//
// Typical usage:
//
//	r, err := mturk.NewReader([]string{"batch1.results", "batch2.results"},
//	    mturk.WithRequiredFields("Answer.sentiment"))
//	if err != nil {
//	    // a file could not be read, or a record is missing a required field
//	}
//	for rec := range r.All() {
//	    fmt.Println(rec["hitid"], rec["Answer.sentiment"])
//	}
package mturk
