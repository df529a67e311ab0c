// Package lsp converts parse diagnostics and byte offsets into their
// Language Server Protocol form.
//
// LSP positions count lines from zero and characters in UTF-16 code units.
// A Mapper is built once per text and converts in both directions:
//
//	m := lsp.NewMapper(text)
//	diags := m.Diagnostics(doc.Diagnostics())
//	node := doc.NodeAt(m.Offset(params.Position), true)
package lsp

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"

	"github.com/adamvoss/yamlast/ast"
	"github.com/adamvoss/yamlast/diag"
)

// Source is reported as the source of every converted diagnostic.
const Source = "yamlast"

// Mapper converts between byte offsets into a text and LSP positions.
type Mapper struct {
	text  string
	lines []int // offset of the first byte of each line
}

// NewMapper returns a Mapper for text. Lines end at "\n", "\r\n" or "\r".
func NewMapper(text string) *Mapper {
	m := &Mapper{text: text, lines: []int{0}}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		case '\n':
		default:
			continue
		}
		m.lines = append(m.lines, i+1)
	}
	return m
}

// Position returns the position of the byte offset off. Offsets outside
// the text are clamped; an offset inside a multi-byte character maps to
// the start of that character.
func (m *Mapper) Position(off int) protocol.Position {
	off = max(0, min(off, len(m.text)))
	line := sort.Search(len(m.lines), func(i int) bool { return m.lines[i] > off }) - 1
	var char uint32
	for i := m.lines[line]; i < off; {
		r, size := utf8.DecodeRuneInString(m.text[i:])
		if i+size > off {
			break
		}
		char += uint32(utf16.RuneLen(r))
		i += size
	}
	return protocol.Position{Line: uint32(line), Character: char}
}

// Offset returns the byte offset of p. Characters past the end of the line
// and lines past the end of the text are clamped.
func (m *Mapper) Offset(p protocol.Position) int {
	if int(p.Line) >= len(m.lines) {
		return len(m.text)
	}
	off := m.lines[p.Line]
	end := len(m.text)
	if int(p.Line)+1 < len(m.lines) {
		end = m.lines[p.Line+1]
	}
	for units := uint32(0); units < p.Character && off < end; {
		r, size := utf8.DecodeRuneInString(m.text[off:])
		if r == '\n' || r == '\r' {
			break
		}
		units += uint32(utf16.RuneLen(r))
		off += size
	}
	return off
}

// Range converts r. A range that was never finalized is treated as empty.
func (m *Mapper) Range(r ast.Range) protocol.Range {
	end := r.End
	if end < r.Start {
		end = r.Start
	}
	return protocol.Range{Start: m.Position(r.Start), End: m.Position(end)}
}

// Severity returns the LSP severity of s.
func Severity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.Error:
		return protocol.DiagnosticSeverityError
	case diag.Warning:
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityInformation
}

// Diagnostic converts d. The code is the name of d.Code.
func (m *Mapper) Diagnostic(d diag.Diagnostic) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    m.Range(d.Range),
		Severity: Severity(d.Severity),
		Code:     d.Code.String(),
		Source:   Source,
		Message:  d.Message,
	}
}

// Diagnostics converts every diagnostic of list. The result is never nil,
// so that it encodes as an empty JSON array.
func (m *Mapper) Diagnostics(list diag.List) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(list))
	for _, d := range list {
		out = append(out, m.Diagnostic(d))
	}
	return out
}
