package diag

// Messages maps codes to human readable message templates. A template may
// contain fmt verbs that are filled from the arguments given when the
// diagnostic is recorded.
type Messages map[Code]string

var defaultMessages = Messages{
	Undefined:                   "Syntax error",
	CommentsNotAllowed:          "Comments are not permitted in JSON.",
	InvalidUnicode:              "Invalid unicode sequence in string",
	InvalidEscapeCharacter:      "Invalid escape character in string",
	UnexpectedEndOfNumber:       "Unexpected end of number",
	UnexpectedEndOfComment:      "Unexpected end of comment",
	UnexpectedEndOfString:       "Unexpected end of string",
	InvalidCharacter:            "Invalid characters in string. Control characters must be escaped.",
	ValueExpected:               "Value expected",
	PropertyExpected:            "Property expected",
	ColonExpected:               "Colon expected",
	DoubleQuotesExpected:        "Property keys must be doublequoted",
	InvalidNumberFormat:         "Invalid number format",
	DuplicateKey:                "Duplicate object key",
	EndOfFileExpected:           "End of file expected",
	CommaOrCloseBraceExpected:   "Expected comma or closing brace",
	CommaOrCloseBracketExpected: "Expected comma or closing bracket",
	InvalidSymbol:               "Expected a %s object, array or literal",
	UnsupportedConstruct:        "Unsupported YAML construct: %s",
	MaxDepthExceeded:            "Maximum nesting depth of %d exceeded",
	MultipleDocuments:           "Only the first YAML document is used",
}

// DefaultMessages returns a copy of the built-in English message table.
func DefaultMessages() Messages {
	m := make(Messages, len(defaultMessages))
	for k, v := range defaultMessages {
		m[k] = v
	}
	return m
}

// Text returns the template for code, falling back to the built-in table
// when m has no entry for it.
func (m Messages) Text(code Code) string {
	if s, ok := m[code]; ok {
		return s
	}
	if s, ok := defaultMessages[code]; ok {
		return s
	}
	return defaultMessages[Undefined]
}
