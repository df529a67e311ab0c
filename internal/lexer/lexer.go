package lexer

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/adamvoss/yamlast/internal/token"
)

// Lexer holds the state for tokenizing JSON source. It moves strictly
// forward and reports trivia (whitespace, line breaks, comments) as tokens
// of their own so callers decide what to skip.
type Lexer struct {
	src string
	pos int
	buf strings.Builder
}

// New creates and returns a new Lexer.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Offset returns the byte offset of the next token.
func (l *Lexer) Offset() int { return l.pos }

// NextToken scans the input and returns the next token. Lexical problems are
// recorded in the token's Err field; scanning always makes progress.
func (l *Lexer) NextToken() token.Token {
	start := l.pos
	tok := token.Token{Offset: start}
	if l.pos >= len(l.src) {
		tok.Type = token.EOF
		return tok
	}

	ch, size := l.peekRune()
	switch {
	case isWhitespace(ch):
		for l.pos < len(l.src) {
			r, sz := l.peekRune()
			if !isWhitespace(r) {
				break
			}
			l.pos += sz
		}
		tok.Type = token.TRIVIA
	case ch == '\n':
		l.pos++
		tok.Type = token.LINE_BREAK
	case ch == '\r':
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '\n' {
			l.pos++
		}
		tok.Type = token.LINE_BREAK
	case ch == '{', ch == '}', ch == '[', ch == ']', ch == ',', ch == ':':
		l.pos++
		tok.Type = token.Type(string(ch))
	case ch == '"':
		tok.Type = token.STRING
		tok.Value, tok.Err = l.readString()
		tok.Literal = l.src[start:l.pos]
		return tok
	case ch == '/':
		tok.Type, tok.Err = l.readComment()
	case ch == '-':
		l.pos++
		if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			tok.Type = token.NUMBER
			tok.Err = l.readNumber()
		} else {
			tok.Type = token.UNKNOWN
		}
	case ch < utf8.RuneSelf && isDigit(byte(ch)):
		tok.Type = token.NUMBER
		tok.Err = l.readNumber()
	default:
		for l.pos < len(l.src) {
			r, sz := l.peekRune()
			if !isUnknownContentChar(r) {
				break
			}
			l.pos += sz
		}
		if l.pos == start {
			l.pos += size
		}
		tok.Type = token.LookupIdent(l.src[start:l.pos])
	}
	tok.Literal = l.src[start:l.pos]
	tok.Value = tok.Literal
	return tok
}

func (l *Lexer) peekRune() (rune, int) {
	return utf8.DecodeRuneInString(l.src[l.pos:])
}

func (l *Lexer) readComment() (token.Type, token.ScanError) {
	if l.pos+1 >= len(l.src) {
		l.pos++
		return token.UNKNOWN, token.NoError
	}
	switch l.src[l.pos+1] {
	case '/':
		l.pos += 2
		for l.pos < len(l.src) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
			l.pos++
		}
		return token.LINE_COMMENT, token.NoError
	case '*':
		l.pos += 2
		end := strings.Index(l.src[l.pos:], "*/")
		if end < 0 {
			l.pos = len(l.src)
			return token.BLOCK_COMMENT, token.UnexpectedEndOfComment
		}
		l.pos += end + 2
		return token.BLOCK_COMMENT, token.NoError
	}
	l.pos++
	return token.UNKNOWN, token.NoError
}

// readNumber consumes the digits of a number whose first digit is at the
// current position. A fraction or exponent without digits ends the token
// with UnexpectedEndOfNumber.
func (l *Lexer) readNumber() token.ScanError {
	if l.src[l.pos] == '0' {
		l.pos++
	} else {
		l.pos++
		l.skipDigits()
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		if l.pos >= len(l.src) || !isDigit(l.src[l.pos]) {
			return token.UnexpectedEndOfNumber
		}
		l.skipDigits()
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos >= len(l.src) || !isDigit(l.src[l.pos]) {
			return token.UnexpectedEndOfNumber
		}
		l.skipDigits()
	}
	return token.NoError
}

func (l *Lexer) skipDigits() {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
}

// readString consumes a double-quoted string starting at the opening quote
// and returns its decoded value. The first lexical problem found is
// returned; an unterminated string stops before the line break.
func (l *Lexer) readString() (string, token.ScanError) {
	l.pos++ // consume opening quote
	l.buf.Reset()
	scanErr := token.NoError
	fail := func(e token.ScanError) {
		if scanErr == token.NoError {
			scanErr = e
		}
	}
	for {
		if l.pos >= len(l.src) {
			fail(token.UnexpectedEndOfString)
			return l.buf.String(), scanErr
		}
		c := l.src[l.pos]
		switch {
		case c == '"':
			l.pos++ // consume closing quote
			return l.buf.String(), scanErr
		case c == '\\':
			l.pos++
			if l.pos >= len(l.src) {
				fail(token.UnexpectedEndOfString)
				return l.buf.String(), scanErr
			}
			if e := l.readEscapeSequence(); e != token.NoError {
				fail(e)
			}
		case c == '\n' || c == '\r':
			fail(token.UnexpectedEndOfString)
			return l.buf.String(), scanErr
		default:
			if c < 0x20 {
				fail(token.InvalidCharacter)
			}
			l.buf.WriteByte(c)
			l.pos++
		}
	}
}

// readEscapeSequence decodes the escape whose selector character is at the
// current position.
func (l *Lexer) readEscapeSequence() token.ScanError {
	ch := l.src[l.pos]
	l.pos++
	switch ch {
	case '"', '\\', '/':
		l.buf.WriteByte(ch)
	case 'b':
		l.buf.WriteByte('\b')
	case 'f':
		l.buf.WriteByte('\f')
	case 'n':
		l.buf.WriteByte('\n')
	case 'r':
		l.buf.WriteByte('\r')
	case 't':
		l.buf.WriteByte('\t')
	case 'u':
		r, ok := l.readHex(4)
		if !ok {
			return token.InvalidUnicode
		}
		if utf16.IsSurrogate(r) && r < 0xDC00 {
			save := l.pos
			if strings.HasPrefix(l.src[l.pos:], `\u`) {
				l.pos += 2
				if r2, ok := l.readHex(4); ok {
					if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
						l.buf.WriteRune(dec)
						return token.NoError
					}
				}
			}
			l.pos = save
		}
		l.buf.WriteRune(r)
	default:
		return token.InvalidEscapeCharacter
	}
	return token.NoError
}

// readHex reads up to n hex digits and reports whether exactly n were found.
func (l *Lexer) readHex(n int) (rune, bool) {
	var val rune
	for i := 0; i < n; i++ {
		if l.pos >= len(l.src) {
			return 0, false
		}
		var d rune
		switch c := l.src[l.pos]; {
		case '0' <= c && c <= '9':
			d = rune(c - '0')
		case 'a' <= c && c <= 'f':
			d = rune(c-'a') + 10
		case 'A' <= c && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, false
		}
		val = val*16 + d
		l.pos++
	}
	return val, true
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', 0xA0, 0x1680, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200B
}

func isUnknownContentChar(r rune) bool {
	if isWhitespace(r) {
		return false
	}
	switch r {
	case '\n', '\r', '{', '}', '[', ']', '"', ':', ',', '/':
		return false
	}
	return true
}
