// Package yamlparser converts YAML text into the same tree the JSON parser
// builds. The grammar is handled by gopkg.in/yaml.v3; this package maps its
// nodes onto ast nodes, computes their byte ranges and imports its errors as
// diagnostics.
package yamlparser

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/adamvoss/yamlast/ast"
	"github.com/adamvoss/yamlast/diag"
	"github.com/adamvoss/yamlast/internal/scalar"
)

// DefaultMaxDepth is the nesting limit used when Config.MaxDepth is zero.
const DefaultMaxDepth = 1000

// maxRecoveries bounds how often a failed parse is retried on a shorter
// prefix of the text.
const maxRecoveries = 8

// Config holds the options of the YAML front end.
type Config struct {
	// MaxDepth limits collection nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Parser converts one YAML text into a tree.
type Parser struct {
	src  *source
	cfg  Config
	diag *diag.Collector
}

// New creates a new parser for text. A nil msgs selects the built-in
// messages.
func New(text string, cfg Config, msgs diag.Messages) *Parser {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &Parser{
		src:  newSource(text),
		cfg:  cfg,
		diag: diag.NewCollector(msgs),
	}
}

// Parse converts the first document of the text and returns its root, which
// is nil when there is none, together with the diagnostics of the parse.
// Parse never fails; yaml.v3 errors are reported as diagnostics.
func (p *Parser) Parse() (ast.Node, *diag.Collector) {
	text := p.src.text
	dec := yaml.NewDecoder(strings.NewReader(text))

	var root ast.Node
	var foreign []error
	var doc yaml.Node
	switch err := dec.Decode(&doc); {
	case err == nil:
		root, _ = newBuilder(p.src, p.cfg, p.diag).build(&doc, frame{indent: -1})
		if err := p.otherDocuments(dec); err != nil {
			foreign = append(foreign, err)
		}
	case errors.Is(err, io.EOF):
	default:
		foreign = append(foreign, err)
		root = p.recoverPrefix(err)
	}

	if root == nil {
		p.diag.Error(diag.InvalidSymbol, ast.Range{Start: 0, End: len(text)}, "YAML")
	}
	for _, err := range foreign {
		p.importError(err)
	}
	return root, p.diag
}

// otherDocuments reads the documents after the first one. Their content is
// ignored; the first of them is reported and a syntax error is returned.
func (p *Parser) otherDocuments(dec *yaml.Decoder) error {
	for i := 0; ; i++ {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if i == 0 {
			p.diag.Warning(diag.MultipleDocuments, p.src.lineRange(doc.Line))
		}
	}
}

// recoverPrefix retries a failed parse on the text before the line the
// error was reported on, so the well-formed part still yields a tree.
func (p *Parser) recoverPrefix(err error) ast.Node {
	line, _, ok := splitError(err)
	for attempt := 0; ok && line > 1 && attempt < maxRecoveries; attempt++ {
		prefix := p.src.text[:p.src.lineStart(line)]
		var doc yaml.Node
		err := yaml.NewDecoder(strings.NewReader(prefix)).Decode(&doc)
		if err == nil {
			root, _ := newBuilder(newSource(prefix), p.cfg, p.diag).build(&doc, frame{indent: -1})
			return root
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		next, _, found := splitError(err)
		if !found || next >= line {
			return nil
		}
		line = next
	}
	return nil
}

// importError records a yaml.v3 error. Errors that name a line cover that
// line, others cover the whole text.
func (p *Parser) importError(err error) {
	line, msg, ok := splitError(err)
	rng := ast.Range{Start: 0, End: len(p.src.text)}
	if ok {
		rng = p.src.lineRange(line)
	}
	p.diag.Import(msg, rng)
}

// scannerProblems start the messages of errors raised by the yaml.v3
// scanner. It numbers their lines from one; the lines of its parser errors
// are numbered from zero.
var scannerProblems = []string{
	"block sequence entries are not allowed in this context",
	"could not find expected ':'",
	"did not find URI escaped octet",
	"did not find expected",
	"did not find the expected '>'",
	"exceeded max depth of",
	"found a tab character",
	"found an incorrect leading UTF-8 octet",
	"found an incorrect trailing UTF-8 octet",
	"found an indentation indicator equal to 0",
	"found character that cannot start any token",
	"found extremely long version number",
	"found invalid Unicode character escape code",
	"found unexpected document indicator",
	"found unexpected end of stream",
	"found unexpected non-alphabetical character",
	"found unknown directive name",
	"found unknown escape character",
	"mapping keys are not allowed in this context",
	"mapping values are not allowed in this context",
}

// parserProblems are the yaml.v3 parser errors that share a prefix with a
// scanner problem.
var parserProblems = []string{
	"did not find expected <document start>",
	"did not find expected <stream-start>",
	"did not find expected node content",
	"did not find expected key",
	"did not find expected '-' indicator",
	"did not find expected ',' or ']'",
	"did not find expected ',' or '}'",
}

func isScannerProblem(msg string) bool {
	for _, p := range parserProblems {
		if strings.HasPrefix(msg, p) {
			return false
		}
	}
	for _, p := range scannerProblems {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}

// splitError takes apart yaml.v3 messages of the form
// "yaml: line 3: some issue" and returns the 1-based line of the issue.
// The line is only reported by some errors.
func splitError(err error) (line int, msg string, ok bool) {
	msg = strings.TrimPrefix(err.Error(), "yaml: ")
	rest, found := strings.CutPrefix(msg, "line ")
	if !found {
		return 0, msg, false
	}
	num, text, found := strings.Cut(rest, ": ")
	if !found {
		return 0, msg, false
	}
	line, convErr := strconv.Atoi(num)
	if convErr != nil {
		return 0, msg, false
	}
	if !isScannerProblem(text) {
		line++
	}
	return line, text, true
}

// frame is the context a node is built in.
type frame struct {
	parent ast.Node
	loc    ast.Segment
	indent int  // column of the enclosing block collection, -1 at the top
	flow   bool // inside a flow collection
}

// buildFn converts one yaml.v3 node. It returns the new node, nil when the
// node has no counterpart, and the source range the yaml node covers.
type buildFn func(n *yaml.Node, f frame) (ast.Node, ast.Range)

type builder struct {
	src   *source
	cfg   Config
	diag  *diag.Collector
	depth int

	buildFns map[yaml.Kind]buildFn
}

func newBuilder(src *source, cfg Config, d *diag.Collector) *builder {
	b := &builder{src: src, cfg: cfg, diag: d}

	b.buildFns = make(map[yaml.Kind]buildFn)
	b.registerKind(yaml.DocumentNode, b.buildDocument)
	b.registerKind(yaml.MappingNode, b.buildMapping)
	b.registerKind(yaml.SequenceNode, b.buildSequence)
	b.registerKind(yaml.ScalarNode, b.buildScalar)
	b.registerKind(yaml.AliasNode, b.buildAlias)

	return b
}

func (b *builder) registerKind(kind yaml.Kind, fn buildFn) {
	b.buildFns[kind] = fn
}

func (b *builder) build(n *yaml.Node, f frame) (ast.Node, ast.Range) {
	fn := b.buildFns[n.Kind]
	if fn == nil {
		start := b.start(n)
		rng := ast.Range{Start: start, End: b.src.lineEnd(start)}
		b.diag.Error(diag.UnsupportedConstruct, rng, "node kind "+strconv.Itoa(int(n.Kind)))
		return nil, rng
	}
	return fn(n, f)
}

// start returns the offset of n, including any anchor or tag properties.
func (b *builder) start(n *yaml.Node) int {
	return b.src.offset(n.Line, n.Column)
}

func (b *builder) buildDocument(n *yaml.Node, f frame) (ast.Node, ast.Range) {
	if len(n.Content) == 0 {
		start := b.start(n)
		return nil, ast.Range{Start: start, End: start}
	}
	return b.build(n.Content[0], f)
}

// enter reports whether a collection starting at start may be built and
// records an error if it is nested too deeply.
func (b *builder) enter(start int) bool {
	if b.depth >= b.cfg.MaxDepth {
		b.diag.Error(diag.MaxDepthExceeded, ast.Range{Start: start, End: start + 1}, b.cfg.MaxDepth)
		return false
	}
	b.depth++
	return true
}

func (b *builder) leave() { b.depth-- }

// collectionRange returns the range of a collection whose children end at
// childEnd and its content start, past any properties.
func (b *builder) collectionRange(n *yaml.Node, f frame, childEnd int, open, close byte) (ast.Range, int) {
	start := b.start(n)
	content, _ := b.src.skipProperties(start, f.flow)
	if n.Style&yaml.FlowStyle == 0 {
		return ast.Range{Start: start, End: max(childEnd, content)}, content
	}
	for content < len(b.src.text) && b.src.text[content] != open {
		content++
	}
	from := max(childEnd, content+1)
	return ast.Range{Start: start, End: b.src.closingEnd(from, close)}, content
}

func (b *builder) buildMapping(n *yaml.Node, f frame) (ast.Node, ast.Range) {
	start := b.start(n)
	obj := ast.NewObject(f.parent, f.loc, start)
	b.checkTag(n, start, "!!map")
	if !b.enter(start) {
		rng, _ := b.skipped(n, f)
		obj.SetEnd(rng.End)
		return obj, rng
	}
	defer b.leave()

	content, _ := b.src.skipProperties(start, f.flow)
	child := frame{parent: obj, indent: b.src.column(content), flow: f.flow || n.Style&yaml.FlowStyle != 0}
	if n.Style&yaml.FlowStyle != 0 {
		child.indent = f.indent
	}

	keysSeen := make(map[string]bool)
	childEnd := start
	for i := 0; i+1 < len(n.Content); i += 2 {
		prop, end := b.buildProperty(obj, n.Content[i], n.Content[i+1], child, keysSeen)
		obj.AddProperty(prop)
		childEnd = max(childEnd, end)
	}

	rng, _ := b.collectionRange(n, f, childEnd, '{', '}')
	obj.SetEnd(rng.End)
	return obj, rng
}

func (b *builder) buildProperty(obj *ast.Object, keyNode, valueNode *yaml.Node, f frame, keysSeen map[string]bool) (*ast.Property, int) {
	keyStart := b.start(keyNode)
	prop := ast.NewProperty(obj, keyStart)

	keyRange := b.keyRange(keyNode, f)
	text := keyNode.Value
	if keyNode.Kind != yaml.ScalarNode {
		text = b.src.text[keyRange.Start:keyRange.End]
	}
	key := ast.NewString(prop, ast.Segment{}, true, keyRange.Start, keyRange.End)
	key.Value = text
	prop.SetKey(key)

	if isMerge(keyNode) {
		b.diag.Warning(diag.UnsupportedConstruct, keyRange, "merge key")
	} else if keyNode.Kind == yaml.AliasNode {
		b.diag.Warning(diag.UnsupportedConstruct, keyRange, "alias")
	}
	if keysSeen[text] {
		b.diag.Warning(diag.DuplicateKey, keyRange)
	}
	keysSeen[text] = true

	if colon := b.colonOffset(keyRange.End); colon >= 0 {
		prop.ColonOffset = colon
	}

	f.parent, f.loc = prop, ast.KeySegment(text)
	value, valueRange := b.build(valueNode, f)
	end := max(keyRange.End, valueRange.End)
	if !prop.SetValue(value) {
		prop.SetEnd(end)
	}
	return prop, end
}

// keyRange returns the range of a mapping key without building it.
func (b *builder) keyRange(n *yaml.Node, f frame) ast.Range {
	switch n.Kind {
	case yaml.ScalarNode:
		return b.scalarRange(n, f)
	case yaml.AliasNode:
		start := b.start(n)
		return ast.Range{Start: start, End: min(start+1+len(n.Value), len(b.src.text))}
	}
	// Complex keys are kept as text; their children are not part of the tree.
	saved := b.diag
	b.diag = diag.NewCollector(nil)
	_, rng := b.build(n, f)
	b.diag = saved
	return rng
}

// colonOffset returns the offset of the ':' following a key that ends at
// off, or -1.
func (b *builder) colonOffset(off int) int {
	for i := off; i < len(b.src.text); i++ {
		switch c := b.src.text[i]; {
		case c == ':':
			return i
		case isBlank(c):
		default:
			return -1
		}
	}
	return -1
}

func (b *builder) buildSequence(n *yaml.Node, f frame) (ast.Node, ast.Range) {
	start := b.start(n)
	arr := ast.NewArray(f.parent, f.loc, start)
	b.checkTag(n, start, "!!seq")
	if !b.enter(start) {
		rng, _ := b.skipped(n, f)
		arr.SetEnd(rng.End)
		return arr, rng
	}
	defer b.leave()

	content, _ := b.src.skipProperties(start, f.flow)
	child := frame{parent: arr, indent: b.src.column(content), flow: f.flow || n.Style&yaml.FlowStyle != 0}
	if n.Style&yaml.FlowStyle != 0 {
		child.indent = f.indent
	}

	childEnd := start
	for _, item := range n.Content {
		child.loc = ast.IndexSegment(len(arr.Items))
		node, rng := b.build(item, child)
		arr.AddItem(node)
		childEnd = max(childEnd, rng.End)
	}

	rng, _ := b.collectionRange(n, f, childEnd, '[', ']')
	arr.SetEnd(rng.End)
	return arr, rng
}

// skipped returns the range of a collection that is not converted.
func (b *builder) skipped(n *yaml.Node, f frame) (ast.Range, int) {
	saved := b.diag
	b.diag = diag.NewCollector(nil)
	defer func() { b.diag = saved }()
	childEnd := b.start(n)
	for _, c := range n.Content {
		_, rng := b.build(c, f)
		childEnd = max(childEnd, rng.End)
	}
	open, close := byte('['), byte(']')
	if n.Kind == yaml.MappingNode {
		open, close = '{', '}'
	}
	return b.collectionRange(n, f, childEnd, open, close)
}

// scalarRange returns the range of a scalar including its properties.
func (b *builder) scalarRange(n *yaml.Node, f frame) ast.Range {
	start := b.start(n)
	content, propsEnd := b.src.skipProperties(start, f.flow)
	var end int
	switch {
	case n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0:
		end = b.src.quotedEnd(content)
	case n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0:
		end = b.src.blockScalarEnd(content, f.indent)
	case n.Value == "":
		end = propsEnd
	default:
		end = b.src.plainEnd(content, n.Value, f.flow)
	}
	return ast.Range{Start: start, End: max(start, end)}
}

func (b *builder) buildScalar(n *yaml.Node, f frame) (ast.Node, ast.Range) {
	rng := b.scalarRange(n, f)
	typ := scalar.Resolve(n)
	if n.Style&yaml.TaggedStyle != 0 {
		if t, ok := scalar.CoreTag(n.Tag); ok {
			typ = t
		} else {
			b.diag.Warning(diag.UnsupportedConstruct, rng, "tag "+n.Tag)
		}
	}
	return b.scalarNode(n.Value, typ, f, rng), rng
}

// scalarNode builds the node for a scalar of type typ. A value that does not
// parse as its type, which only happens with explicit tags, becomes a
// string.
func (b *builder) scalarNode(value string, typ scalar.Type, f frame, rng ast.Range) ast.Node {
	switch typ {
	case scalar.Null:
		return ast.NewNull(f.parent, f.loc, rng.Start, rng.End)
	case scalar.Bool:
		if v, err := scalar.ParseBool(value); err == nil {
			return ast.NewBoolean(f.parent, f.loc, v, rng.Start, rng.End)
		}
	case scalar.Int:
		if v, err := scalar.ParseInt(value); err == nil {
			num := ast.NewNumber(f.parent, f.loc, rng.Start, rng.End)
			num.Value, num.IsInteger = float64(v), true
			return num
		}
		if v, err := scalar.ParseFloat(value); err == nil {
			num := ast.NewNumber(f.parent, f.loc, rng.Start, rng.End)
			num.Value, num.IsInteger = v, true
			return num
		}
	case scalar.Float:
		if v, err := scalar.ParseFloat(value); err == nil {
			num := ast.NewNumber(f.parent, f.loc, rng.Start, rng.End)
			num.Value = v
			return num
		}
	}
	str := ast.NewString(f.parent, f.loc, false, rng.Start, rng.End)
	str.Value = value
	return str
}

func (b *builder) buildAlias(n *yaml.Node, f frame) (ast.Node, ast.Range) {
	start := b.start(n)
	rng := ast.Range{Start: start, End: min(start+1+len(n.Value), len(b.src.text))}
	b.diag.Warning(diag.UnsupportedConstruct, rng, "alias")
	return nil, rng
}

// checkTag warns about explicit collection tags other than the core one.
func (b *builder) checkTag(n *yaml.Node, start int, core string) {
	if n.Style&yaml.TaggedStyle == 0 || n.Tag == core {
		return
	}
	_, propsEnd := b.src.skipProperties(start, false)
	b.diag.Warning(diag.UnsupportedConstruct, ast.Range{Start: start, End: propsEnd}, "tag "+n.Tag)
}

func isMerge(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Value == "<<" && (n.Tag == "" || n.Tag == "!" || n.ShortTag() == "!!merge")
}
