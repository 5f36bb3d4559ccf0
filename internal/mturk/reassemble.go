package mturk

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineBytes is the scanner buffer limit for a single physical line.
// Answer fields with embedded HTML can run long, so this is generous.
const maxLineBytes = 4 * 1024 * 1024

// lineComplete reports whether a trimmed physical line ends a logical
// record. A record row always closes with the final field's closing
// quote, so a complete line ends with '"' — but a line ending in an
// empty quoted field marker (tab followed by a lone quote) is the start
// of a wrapped field, not a terminator.
func lineComplete(trimmed string) bool {
	return strings.HasSuffix(trimmed, `"`) && !strings.HasSuffix(trimmed, "\t\"")
}

// reassemble reads physical lines from r and reconstructs logical lines.
// Physical-line breaks inside one logical line collapse to a single
// space. Trailing content that never reaches a completion boundary is
// dropped; the exporter is known to truncate output this way and the
// partial row carries no usable record.
func reassemble(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var lines []string
	var fragments []string

	for sc.Scan() {
		trimmed := strings.TrimSpace(sc.Text())
		fragments = append(fragments, trimmed)
		if lineComplete(trimmed) {
			lines = append(lines, strings.TrimSpace(strings.Join(fragments, " ")))
			fragments = fragments[:0]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}

	return lines, nil
}
