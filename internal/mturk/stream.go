package mturk

// stream.go wraps raw result-file readers with input hygiene:
//
//   - bomSkipReader drops the UTF-8 BOM (0xEF 0xBB 0xBF) that Windows
//     tools prepend to downloaded batches
//   - sanitizingReader replaces invalid UTF-8 bytes with '?' so one bad
//     byte in a worker answer does not poison the whole line
//
// wrapInput applies both in the right order.

import (
	"io"
	"unicode/utf8"
)

// wrapInput prepares a raw file reader for line reassembly.
func wrapInput(r io.Reader) io.Reader {
	return newSanitizingReader(newBOMSkipReader(r))
}

// bomSkipReader skips a leading UTF-8 BOM, if present, on the first read.
type bomSkipReader struct {
	r       io.Reader
	checked bool
	held    []byte
}

func newBOMSkipReader(r io.Reader) *bomSkipReader {
	return &bomSkipReader{r: r}
}

func (b *bomSkipReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		var head [3]byte
		n, err := io.ReadFull(b.r, head[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if n > 0 {
			if n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
				// BOM consumed, nothing to hold back.
			} else {
				b.held = append(b.held, head[:n]...)
			}
		}
		if err != nil && err != io.EOF && n == 0 {
			return 0, err
		}
	}

	if len(b.held) > 0 {
		n := copy(p, b.held)
		b.held = b.held[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// sanitizingReader replaces invalid UTF-8 bytes with '?' as data streams
// through. A multi-byte sequence split across two reads is held back
// until its continuation bytes arrive. Sanitized bytes sit in an output
// buffer until delivered, so a small destination never loses data.
type sanitizingReader struct {
	r       io.Reader
	buf     []byte
	out     []byte
	pending []byte
	err     error
}

func newSanitizingReader(r io.Reader) *sanitizingReader {
	return &sanitizingReader{r: r}
}

func (s *sanitizingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(s.out) == 0 && s.err == nil {
		s.fill()
	}
	if len(s.out) == 0 {
		return 0, s.err
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill reads one chunk from the underlying reader and sanitizes it into
// the output buffer. On stream end, a still-incomplete trailing sequence
// is flushed as replacement bytes.
func (s *sanitizingReader) fill() {
	if s.buf == nil {
		s.buf = make([]byte, 4096)
	}

	n, err := s.r.Read(s.buf)
	if n > 0 {
		chunk := append(s.pending, s.buf[:n]...)
		s.pending = nil
		s.sanitize(chunk, false)
	}
	if err != nil {
		if len(s.pending) > 0 {
			s.sanitize(s.pending, true)
			s.pending = nil
		}
		s.err = err
	}
}

// sanitize appends the valid form of data to the output buffer,
// replacing invalid bytes with '?'. An incomplete trailing sequence is
// moved to pending unless atEOF.
func (s *sanitizingReader) sanitize(data []byte, atEOF bool) {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])

		if r == utf8.RuneError && size == 1 {
			rest := data[i:]
			if !atEOF && incompleteSequence(rest) {
				s.pending = append([]byte(nil), rest...)
				return
			}
			// A replacement rune would expand the stream; '?' keeps
			// its length stable.
			s.out = append(s.out, '?')
			i++
			continue
		}

		s.out = append(s.out, data[i:i+size]...)
		i += size
	}
}

// incompleteSequence reports whether data is the truncated start of a
// valid multi-byte UTF-8 sequence.
func incompleteSequence(data []byte) bool {
	if len(data) == 0 || len(data) >= utf8.UTFMax {
		return false
	}
	want := sequenceLen(data[0])
	if want <= len(data) {
		return false
	}
	for _, b := range data[1:] {
		if b&0xC0 != 0x80 {
			return false
		}
	}
	return true
}

// sequenceLen returns the expected byte length of a UTF-8 sequence
// starting with b, or 0 if b cannot start one.
func sequenceLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}
