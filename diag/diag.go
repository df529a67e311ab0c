// Package diag defines the diagnostics reported by the JSON parser and the
// YAML bridge, and the collector both front ends append to.
package diag

import (
	"fmt"
	"strconv"

	"github.com/adamvoss/yamlast/ast"
)

// Code classifies a diagnostic.
type Code int

const (
	Undefined Code = iota
	CommentsNotAllowed
	InvalidUnicode
	InvalidEscapeCharacter
	UnexpectedEndOfNumber
	UnexpectedEndOfComment
	UnexpectedEndOfString
	InvalidCharacter
	ValueExpected
	PropertyExpected
	ColonExpected
	DoubleQuotesExpected
	InvalidNumberFormat
	DuplicateKey
	EndOfFileExpected
	CommaOrCloseBraceExpected
	CommaOrCloseBracketExpected
	InvalidSymbol
	UnsupportedConstruct
	MaxDepthExceeded
	MultipleDocuments

	numCodes
)

var codeNames = [numCodes]string{
	Undefined:                   "undefined",
	CommentsNotAllowed:          "comments-not-allowed",
	InvalidUnicode:              "invalid-unicode",
	InvalidEscapeCharacter:      "invalid-escape-character",
	UnexpectedEndOfNumber:       "unexpected-end-of-number",
	UnexpectedEndOfComment:      "unexpected-end-of-comment",
	UnexpectedEndOfString:       "unexpected-end-of-string",
	InvalidCharacter:            "invalid-character",
	ValueExpected:               "value-expected",
	PropertyExpected:            "property-expected",
	ColonExpected:               "colon-expected",
	DoubleQuotesExpected:        "double-quotes-expected",
	InvalidNumberFormat:         "invalid-number-format",
	DuplicateKey:                "duplicate-key-warning",
	EndOfFileExpected:           "end-of-file-expected",
	CommaOrCloseBraceExpected:   "comma-or-close-brace-expected",
	CommaOrCloseBracketExpected: "comma-or-close-bracket-expected",
	InvalidSymbol:               "invalid-symbol",
	UnsupportedConstruct:        "unsupported-construct",
	MaxDepthExceeded:            "max-depth-exceeded",
	MultipleDocuments:           "multiple-documents",
}

func (c Code) String() string {
	if c >= 0 && c < numCodes {
		return codeNames[c]
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// Codes returns every defined code in declaration order.
func Codes() []Code {
	out := make([]Code, numCodes)
	for i := range out {
		out[i] = Code(i)
	}
	return out
}

// Severity separates errors from warnings. Warnings never block tree
// construction and say nothing about the correctness of the tree.
type Severity int

const (
	Error Severity = iota + 1
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	}
	return "Severity(" + strconv.Itoa(int(s)) + ")"
}

// Diagnostic is a single problem found while parsing.
type Diagnostic struct {
	Message  string
	Code     Code
	Severity Severity
	Range    ast.Range
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s at %s: %s (%s)", d.Severity, d.Range, d.Message, d.Code)
}

// List is a slice of diagnostics that implements the error interface, so
// every problem of a parse can be returned at once.
type List []Diagnostic

func (l List) Error() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return "yamlast: " + l[0].Error()
	}
	return fmt.Sprintf("yamlast: %s (and %d more)", l[0].Error(), len(l)-1)
}
