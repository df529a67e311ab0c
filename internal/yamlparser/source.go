package yamlparser

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adamvoss/yamlast/ast"
)

const bom = "\ufeff"

// source maps the line/column positions reported by yaml.v3 back to byte
// offsets and finds where nodes end, which yaml.v3 does not record.
type source struct {
	text  string
	lines []int // offset of the first byte of each line
}

func newSource(text string) *source {
	s := &source{text: text}
	start := 0
	if strings.HasPrefix(text, bom) {
		// yaml.v3 does not count the byte order mark as a column.
		start = len(bom)
	}
	s.lines = append(s.lines, start)
	for i := start; i < len(text); {
		n := breakLen(text, i)
		if n == 0 {
			i++
			continue
		}
		i += n
		s.lines = append(s.lines, i)
	}
	return s
}

// breakLen returns the length of the line break starting at i, or 0. The
// set of breaks matches the one yaml.v3 counts lines with.
func breakLen(text string, i int) int {
	switch text[i] {
	case '\n':
		return 1
	case '\r':
		if i+1 < len(text) && text[i+1] == '\n' {
			return 2
		}
		return 1
	case 0xC2:
		if strings.HasPrefix(text[i:], "\u0085") {
			return len("\u0085")
		}
	case 0xE2:
		if strings.HasPrefix(text[i:], "\u2028") || strings.HasPrefix(text[i:], "\u2029") {
			return len("\u2028")
		}
	}
	return 0
}

// offset converts a 1-based line and a 1-based column counted in characters
// to a byte offset. Positions past the end of a line or of the text are
// clamped; yaml.v3 reports such positions for implicit null values.
func (s *source) offset(line, col int) int {
	if line < 1 {
		return 0
	}
	if line > len(s.lines) {
		return len(s.text)
	}
	off := s.lines[line-1]
	for c := 1; c < col && off < len(s.text); c++ {
		if breakLen(s.text, off) > 0 {
			break
		}
		_, size := utf8.DecodeRuneInString(s.text[off:])
		off += size
	}
	return off
}

// line returns the 0-based index of the line containing off.
func (s *source) line(off int) int {
	return sort.Search(len(s.lines), func(i int) bool {
		return s.lines[i] > off
	}) - 1
}

// lineStart returns the offset of the first byte of the 1-based line.
func (s *source) lineStart(line int) int {
	switch {
	case line < 1:
		return 0
	case line > len(s.lines):
		return len(s.text)
	}
	return s.lines[line-1]
}

// lineEnd returns the offset of the line break ending the line that
// contains off, or the end of the text.
func (s *source) lineEnd(off int) int {
	for i := off; i < len(s.text); i++ {
		if breakLen(s.text, i) > 0 {
			return i
		}
	}
	return len(s.text)
}

// lineRange returns the range of the 1-based line without its line break.
func (s *source) lineRange(line int) ast.Range {
	if line > len(s.lines) {
		line = len(s.lines)
	}
	start := s.lineStart(line)
	return ast.Range{Start: start, End: s.lineEnd(start)}
}

// column returns the byte distance of off from the start of its line.
func (s *source) column(off int) int {
	return off - s.lines[max(s.line(off), 0)]
}

// indentOf returns the number of leading spaces of the line starting at
// start and whether the line holds nothing else.
func (s *source) indentOf(start int) (indent int, blank bool) {
	i := start
	for i < len(s.text) && s.text[i] == ' ' {
		i++
	}
	end := s.lineEnd(start)
	return i - start, strings.TrimSpace(s.text[i:end]) == ""
}

// isDocumentMarker reports whether the line starting at start opens or
// closes a document.
func (s *source) isDocumentMarker(start int) bool {
	rest := s.text[start:]
	if !strings.HasPrefix(rest, "---") && !strings.HasPrefix(rest, "...") {
		return false
	}
	return len(rest) == 3 || rest[3] == ' ' || rest[3] == '\t' || breakLen(rest, 3) > 0
}
