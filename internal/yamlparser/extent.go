package yamlparser

import "strings"

// skipProperties moves past the anchor and tag properties that may precede
// a node's content at off. It returns the start of the content and the end
// of the last property, which equals off when there are none.
func (s *source) skipProperties(off int, flow bool) (content, propsEnd int) {
	propsEnd = off
	for off < len(s.text) && (s.text[off] == '&' || s.text[off] == '!') {
		for off < len(s.text) && !isBlank(s.text[off]) && breakLen(s.text, off) == 0 {
			if flow && isFlowIndicator(s.text[off]) {
				break
			}
			off++
		}
		propsEnd = off
		off = s.skipSpace(off)
	}
	return off, propsEnd
}

// skipSpace moves past blanks, line breaks and comments.
func (s *source) skipSpace(off int) int {
	for off < len(s.text) {
		switch c := s.text[off]; {
		case isBlank(c):
			off++
		case c == '#':
			off = s.lineEnd(off)
		default:
			n := breakLen(s.text, off)
			if n == 0 {
				return off
			}
			off += n
		}
	}
	return off
}

// quotedEnd returns the offset just past the quoted scalar opening at off.
func (s *source) quotedEnd(off int) int {
	if off >= len(s.text) {
		return len(s.text)
	}
	q := s.text[off]
	for i := off + 1; i < len(s.text); i++ {
		switch s.text[i] {
		case '\\':
			if q == '"' {
				i++
			}
		case q:
			if q == '\'' && i+1 < len(s.text) && s.text[i+1] == '\'' {
				i++
				continue
			}
			return i + 1
		}
	}
	return len(s.text)
}

// blockScalarEnd returns the end of the literal or folded scalar whose
// header starts at off. Content lines are indented deeper than the
// enclosing collection and at least as deep as the first content line; the
// scalar ends after the last non-blank one.
func (s *source) blockScalarEnd(off, parentIndent int) int {
	end := s.lineEnd(off)
	contentIndent := -1
	for line := s.line(off) + 1; line < len(s.lines); line++ {
		start := s.lines[line]
		if s.isDocumentMarker(start) {
			break
		}
		indent, blank := s.indentOf(start)
		if blank {
			continue
		}
		if indent <= parentIndent || indent < contentIndent {
			break
		}
		if contentIndent < 0 {
			contentIndent = indent
		}
		end = s.lineEnd(start)
	}
	return end
}

// plainEnd returns the end of the plain scalar starting at off whose folded
// value is value. Continuation lines are matched against value segment by
// segment.
func (s *source) plainEnd(off int, value string, flow bool) int {
	end := s.plainSegmentEnd(off, flow)
	first := s.text[off:end]
	if len(first) >= len(value) || !strings.HasPrefix(value, first) {
		return end
	}
	rest := value[len(first):]
	for line := s.line(end) + 1; line < len(s.lines); line++ {
		start := s.lines[line]
		if s.isDocumentMarker(start) {
			break
		}
		indent, blank := s.indentOf(start)
		if blank {
			continue
		}
		segStart := start + indent
		for segStart < len(s.text) && s.text[segStart] == '\t' {
			segStart++
		}
		if segStart >= len(s.text) || s.text[segStart] == '#' {
			break
		}
		segEnd := s.plainSegmentEnd(segStart, flow)
		seg := s.text[segStart:segEnd]
		idx := strings.Index(rest, seg)
		if seg == "" || idx < 0 {
			break
		}
		rest = rest[idx+len(seg):]
		end = segEnd
		if strings.TrimSpace(rest) == "" {
			break
		}
	}
	return end
}

// plainSegmentEnd returns the end of the part of a plain scalar on the line
// starting at off, without trailing blanks.
func (s *source) plainSegmentEnd(off int, flow bool) int {
	i := off
loop:
	for i < len(s.text) {
		c := s.text[i]
		switch {
		case breakLen(s.text, i) > 0:
			break loop
		case c == ':' && s.endsPlain(i+1, flow):
			break loop
		case c == '#' && i > off && isBlank(s.text[i-1]):
			break loop
		case flow && isFlowIndicator(c):
			break loop
		}
		i++
	}
	for i > off && isBlank(s.text[i-1]) {
		i--
	}
	return i
}

// endsPlain reports whether a ':' followed by the character at i ends a
// plain scalar.
func (s *source) endsPlain(i int, flow bool) bool {
	if i >= len(s.text) {
		return true
	}
	c := s.text[i]
	return isBlank(c) || breakLen(s.text, i) > 0 || (flow && isFlowIndicator(c))
}

// closingEnd returns the offset just past the first close delimiter at or
// after start that is not inside a quoted scalar or a comment.
func (s *source) closingEnd(start int, close byte) int {
	for i := start; i < len(s.text); i++ {
		switch s.text[i] {
		case close:
			return i + 1
		case '"', '\'':
			i = s.quotedEnd(i) - 1
		case '#':
			if i == start || isBlank(s.text[i-1]) || breakLen(s.text, i-1) > 0 {
				i = s.lineEnd(i) - 1
			}
		}
	}
	return len(s.text)
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func isFlowIndicator(c byte) bool {
	switch c {
	case ',', '[', ']', '{', '}':
		return true
	}
	return false
}
