package token

// Type is the type of a token.
type Type string

// ScanError is a lexical problem found while scanning a token. Scanning
// never stops on these; the token is still produced.
type ScanError int

const (
	NoError ScanError = iota
	UnexpectedEndOfComment
	UnexpectedEndOfString
	UnexpectedEndOfNumber
	InvalidUnicode
	InvalidEscapeCharacter
	InvalidCharacter
)

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string // raw source text of the token
	Value   string // decoded value for strings, the literal otherwise
	Offset  int    // byte offset of the first character
	Err     ScanError
}

// Len returns the length of the token in bytes.
func (t Token) Len() int { return len(t.Literal) }

// End returns the byte offset just past the token.
func (t Token) End() int { return t.Offset + len(t.Literal) }

const (
	// Special tokens
	UNKNOWN Type = "UNKNOWN" // anything that is not valid JSON
	EOF     Type = "EOF"

	// Literals
	STRING Type = "STRING" // "hello world"
	NUMBER Type = "NUMBER" // -12.5e3

	// Delimiters
	LBRACE Type = "{"
	RBRACE Type = "}"
	LBRACK Type = "["
	RBRACK Type = "]"
	COMMA  Type = ","
	COLON  Type = ":"

	// Keywords
	TRUE  Type = "TRUE"
	FALSE Type = "FALSE"
	NULL  Type = "NULL"

	// Trivia
	LINE_COMMENT  Type = "LINE_COMMENT"  // // a comment
	BLOCK_COMMENT Type = "BLOCK_COMMENT" // /* a comment */
	LINE_BREAK    Type = "LINE_BREAK"    // \n, \r\n or \r
	TRIVIA        Type = "TRIVIA"        // spaces and tabs
)

var keywords = map[string]Type{
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
}

// LookupIdent checks the keywords table for an identifier.
// If the identifier is a keyword, it returns the keyword's token type.
// Otherwise, it returns UNKNOWN.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return UNKNOWN
}

// IsTrivia reports whether tokens of type t carry no syntax.
func (t Type) IsTrivia() bool {
	switch t {
	case LINE_COMMENT, BLOCK_COMMENT, LINE_BREAK, TRIVIA:
		return true
	}
	return false
}
