package parser

import (
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/adamvoss/yamlast/ast"
	"github.com/adamvoss/yamlast/diag"
	"github.com/adamvoss/yamlast/internal/lexer"
	"github.com/adamvoss/yamlast/internal/token"
)

// DefaultMaxDepth is the nesting limit used when Config.MaxDepth is zero.
const DefaultMaxDepth = 1000

// Config holds the options that change how JSON text is accepted.
type Config struct {
	// DisallowComments reports comments as errors instead of skipping them.
	DisallowComments bool
	// IgnoreDanglingComma accepts a trailing comma in arrays and objects.
	IgnoreDanglingComma bool
	// MaxDepth limits container nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

type prefixParseFn func(parent ast.Node, loc ast.Segment) ast.Node

// Parser holds the state of the parser.
type Parser struct {
	src  string
	l    *lexer.Lexer
	cfg  Config
	diag *diag.Collector

	curToken token.Token
	depth    int

	prefixParseFns map[token.Type]prefixParseFn
}

// New creates a new parser for src. A nil msgs selects the built-in
// messages.
func New(src string, cfg Config, msgs diag.Messages) *Parser {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	p := &Parser{
		src:  src,
		l:    lexer.New(src),
		cfg:  cfg,
		diag: diag.NewCollector(msgs),
	}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.LBRACK, p.parseArray)
	p.registerPrefix(token.LBRACE, p.parseObject)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.TRUE, p.parseLiteral)
	p.registerPrefix(token.FALSE, p.parseLiteral)
	p.registerPrefix(token.NULL, p.parseLiteral)

	return p
}

// Parse parses the whole input and returns the root node, which is nil when
// no value could be read, together with the diagnostics of the parse.
// Parse never fails; malformed input yields a partial tree and errors.
func (p *Parser) Parse() (ast.Node, *diag.Collector) {
	p.nextToken()

	root := p.parseValue(nil, ast.Segment{})
	if root == nil {
		p.error(diag.InvalidSymbol, nil, nil, nil, "JSON")
	} else if !p.curTokenIs(token.EOF) {
		p.error(diag.EndOfFileExpected, nil, nil, nil)
	}
	return root, p.diag
}

// nextToken advances to the next significant token. Trivia is skipped;
// scan errors and, if configured, comments are reported on the way.
func (p *Parser) nextToken() token.Type {
	for {
		p.curToken = p.l.NextToken()
		p.checkScanError()
		switch p.curToken.Type {
		case token.LINE_COMMENT, token.BLOCK_COMMENT:
			if p.cfg.DisallowComments {
				p.error(diag.CommentsNotAllowed, nil, nil, nil)
			}
		case token.TRIVIA, token.LINE_BREAK:
		default:
			return p.curToken.Type
		}
	}
}

var scanErrorCodes = map[token.ScanError]diag.Code{
	token.UnexpectedEndOfComment: diag.UnexpectedEndOfComment,
	token.UnexpectedEndOfString:  diag.UnexpectedEndOfString,
	token.UnexpectedEndOfNumber:  diag.UnexpectedEndOfNumber,
	token.InvalidUnicode:         diag.InvalidUnicode,
	token.InvalidEscapeCharacter: diag.InvalidEscapeCharacter,
	token.InvalidCharacter:       diag.InvalidCharacter,
}

func (p *Parser) checkScanError() bool {
	code, ok := scanErrorCodes[p.curToken.Err]
	if !ok {
		return false
	}
	p.error(code, nil, nil, nil)
	return true
}

// accept consumes the current token if it has type t.
func (p *Parser) accept(t token.Type) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	return false
}

// error reports code at the current token. A node given is finalized at the
// current token and returned. When skip sets are given the parser then
// resynchronizes: it stops after the first token in skipUntilAfter or before
// the first token in skipUntil.
func (p *Parser) error(code diag.Code, node ast.Node, skipUntilAfter, skipUntil []token.Type, args ...any) ast.Node {
	start, end := p.curToken.Offset, p.curToken.End()
	if start == end && start > 0 {
		start--
		for start > 0 && isSpace(p.src[start]) {
			start--
		}
		end = start + 1
	}
	p.diag.Error(code, ast.Range{Start: start, End: end}, args...)

	if node != nil {
		p.finalize(node, false)
	}
	if len(skipUntilAfter)+len(skipUntil) > 0 {
		for t := p.curToken.Type; t != token.EOF; t = p.nextToken() {
			if slices.Contains(skipUntilAfter, t) {
				p.nextToken()
				break
			}
			if slices.Contains(skipUntil, t) {
				break
			}
		}
	}
	return node
}

// finalize ends node at the end of the current token and optionally moves
// past that token.
func (p *Parser) finalize(node ast.Node, next bool) ast.Node {
	node.SetEnd(p.curToken.End())
	if next {
		p.nextToken()
	}
	return node
}

// The contract for all parse functions is that they are entered with
// p.curToken being the first token of the construct and return with
// p.curToken pointing at the token after it. A function that does not
// recognize the current token returns nil without consuming anything.

func (p *Parser) parseValue(parent ast.Node, loc ast.Segment) ast.Node {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		return nil
	}
	return prefix(parent, loc)
}

func (p *Parser) parseArray(parent ast.Node, loc ast.Segment) ast.Node {
	node := ast.NewArray(parent, loc, p.curToken.Offset)
	if p.tooDeep() {
		return p.skipContainer(node)
	}
	p.depth++
	defer func() { p.depth-- }()
	p.nextToken() // consume '['

	count := 0
	if node.AddItem(p.parseValue(node, ast.IndexSegment(count))) {
		count++
		for p.accept(token.COMMA) {
			if node.AddItem(p.parseValue(node, ast.IndexSegment(count))) {
				count++
			} else if !p.cfg.IgnoreDanglingComma {
				p.error(diag.ValueExpected, nil, nil, nil)
			}
		}
	}

	if !p.curTokenIs(token.RBRACK) {
		return p.error(diag.CommaOrCloseBracketExpected, node, nil, nil)
	}
	return p.finalize(node, true)
}

func (p *Parser) parseObject(parent ast.Node, loc ast.Segment) ast.Node {
	node := ast.NewObject(parent, loc, p.curToken.Offset)
	if p.tooDeep() {
		return p.skipContainer(node)
	}
	p.depth++
	defer func() { p.depth-- }()
	p.nextToken() // consume '{'

	keysSeen := make(map[string]bool)
	if node.AddProperty(p.parseProperty(node, keysSeen)) {
		for p.accept(token.COMMA) {
			if !node.AddProperty(p.parseProperty(node, keysSeen)) && !p.cfg.IgnoreDanglingComma {
				p.error(diag.PropertyExpected, nil, nil, nil)
			}
		}
	}

	if !p.curTokenIs(token.RBRACE) {
		return p.error(diag.CommaOrCloseBraceExpected, node, nil, nil)
	}
	return p.finalize(node, true)
}

var propertyRecovery = []token.Type{token.RBRACE, token.COMMA}

// parseProperty parses a key/value member. It returns nil only when there is
// no key at all; a property with a missing colon or value is kept.
func (p *Parser) parseProperty(parent *ast.Object, keysSeen map[string]bool) *ast.Property {
	prop := ast.NewProperty(parent, p.curToken.Offset)

	var key *ast.String
	switch p.curToken.Type {
	case token.STRING:
		key = p.parseString(prop, ast.Segment{}).(*ast.String)
		key.IsKey = true
	case token.UNKNOWN:
		if looksLikeKey(p.curToken.Literal) {
			p.error(diag.DoubleQuotesExpected, nil, nil, nil)
		}
		key = ast.NewString(prop, ast.Segment{}, true, p.curToken.Offset, p.curToken.End())
		key.Value = p.curToken.Value
		p.nextToken()
	default:
		return nil
	}
	prop.SetKey(key)

	if keysSeen[key.Value] {
		p.diag.Warning(diag.DuplicateKey, key.Range())
	}
	keysSeen[key.Value] = true

	if !p.curTokenIs(token.COLON) {
		p.error(diag.ColonExpected, prop, nil, propertyRecovery)
		return prop
	}
	prop.ColonOffset = p.curToken.Offset
	p.nextToken() // consume ':'

	if !prop.SetValue(p.parseValue(prop, ast.KeySegment(key.Value))) {
		p.error(diag.ValueExpected, prop, nil, propertyRecovery)
	}
	return prop
}

func (p *Parser) parseString(parent ast.Node, loc ast.Segment) ast.Node {
	node := ast.NewString(parent, loc, false, p.curToken.Offset, -1)
	node.Value = p.curToken.Value
	return p.finalize(node, true)
}

func (p *Parser) parseNumber(parent ast.Node, loc ast.Segment) ast.Node {
	node := ast.NewNumber(parent, loc, p.curToken.Offset, -1)
	if p.curToken.Err == token.NoError {
		lit := p.curToken.Literal
		var v any
		if err := json.Unmarshal([]byte(lit), &v); err != nil {
			p.error(diag.InvalidNumberFormat, nil, nil, nil)
		} else if f, ok := v.(float64); ok {
			node.Value = f
			node.IsInteger = !strings.Contains(lit, ".")
		} else {
			return nil
		}
	}
	return p.finalize(node, true)
}

func (p *Parser) parseLiteral(parent ast.Node, loc ast.Segment) ast.Node {
	start, end := p.curToken.Offset, p.curToken.End()
	var node ast.Node
	switch p.curToken.Type {
	case token.TRUE:
		node = ast.NewBoolean(parent, loc, true, start, end)
	case token.FALSE:
		node = ast.NewBoolean(parent, loc, false, start, end)
	default:
		node = ast.NewNull(parent, loc, start, end)
	}
	p.nextToken()
	return node
}

func (p *Parser) tooDeep() bool {
	return p.depth >= p.cfg.MaxDepth
}

// skipContainer reports a nesting overflow at the opening delimiter and moves
// past the balanced container without building its children.
func (p *Parser) skipContainer(node ast.Node) ast.Node {
	p.error(diag.MaxDepthExceeded, nil, nil, nil, p.cfg.MaxDepth)
	level := 0
	for ; !p.curTokenIs(token.EOF); p.nextToken() {
		switch p.curToken.Type {
		case token.LBRACE, token.LBRACK:
			level++
		case token.RBRACE, token.RBRACK:
			level--
		}
		if level == 0 {
			return p.finalize(node, true)
		}
	}
	return p.finalize(node, false)
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// looksLikeKey reports whether an unquoted token was probably meant as a
// property name.
func looksLikeKey(lit string) bool {
	if lit == "" {
		return false
	}
	c := lit[0]
	return c == '\'' || c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
