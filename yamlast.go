package yamlast

import (
	"context"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/adamvoss/yamlast/ast"
	"github.com/adamvoss/yamlast/diag"
	"github.com/adamvoss/yamlast/internal/parser"
	"github.com/adamvoss/yamlast/internal/scalar"
	"github.com/adamvoss/yamlast/internal/yamlparser"
)

const defaultMaxDepth = parser.DefaultMaxDepth

// Document is the result of parsing one text. Root is nil when the text
// holds no value; Errors then explains why.
type Document struct {
	Root     ast.Node
	Errors   diag.List
	Warnings diag.List
}

// NodeAt returns the deepest node whose range contains offset, or nil.
// The end of a range counts as inside when includeRightBound is set, which
// is what completion at the end of a token needs.
func (d *Document) NodeAt(offset int, includeRightBound bool) ast.Node {
	return ast.NodeAt(d.Root, offset, includeRightBound)
}

// Diagnostics returns errors and warnings ordered by their start offset.
func (d *Document) Diagnostics() diag.List {
	return diag.Sorted(d.Errors, d.Warnings)
}

// Err returns the errors of the parse as a diag.List, or nil when there
// were none.
func (d *Document) Err() error {
	if len(d.Errors) == 0 {
		return nil
	}
	return d.Errors
}

// Value returns the root as plain Go values. See ast.Value.
func (d *Document) Value() any {
	return ast.Value(d.Root)
}

// ParseJSON parses text as JSON with comments. Malformed text never fails;
// its problems are reported in the Document. The error is only non-nil for
// an invalid option.
func ParseJSON(text string, opts ...Option) (*Document, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	p := parser.New(text, parser.Config{
		DisallowComments:    o.disallowComments,
		IgnoreDanglingComma: o.ignoreDanglingComma,
		MaxDepth:            o.maxDepth,
	}, o.messages)
	root, d := p.Parse()
	return newDocument("json", root, d, len(text), o.logger), nil
}

// ParseYAML converts the first document of a YAML text into the same tree
// ParseJSON builds. Anchors, aliases, merge keys and custom tags are not
// carried into the tree and are reported as warnings. The error is only
// non-nil for an invalid option.
func ParseYAML(text string, opts ...Option) (*Document, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	p := yamlparser.New(text, yamlparser.Config{MaxDepth: o.maxDepth}, o.messages)
	root, d := p.Parse()
	return newDocument("yaml", root, d, len(text), o.logger), nil
}

func newDocument(format string, root ast.Node, d *diag.Collector, size int, logger *slog.Logger) *Document {
	doc := &Document{Root: root, Errors: d.Errors(), Warnings: d.Warnings()}
	logger.LogAttrs(context.Background(), slog.LevelDebug, "parsed document",
		slog.String("format", format),
		slog.Int("bytes", size),
		slog.Bool("root", root != nil),
		slog.Int("errors", len(doc.Errors)),
		slog.Int("warnings", len(doc.Warnings)),
	)
	return doc
}

// ScalarType is the type a YAML scalar resolves to.
type ScalarType = scalar.Type

// Scalar types.
const (
	Null   = scalar.Null
	Bool   = scalar.Bool
	Int    = scalar.Int
	Float  = scalar.Float
	String = scalar.String
)

// ResolveScalar returns the type of a yaml.v3 scalar node under the YAML
// 1.2 core schema. A nil node is Null; quoted and block scalars are always
// String.
func ResolveScalar(n *yaml.Node) ScalarType {
	return scalar.Resolve(n)
}

// ResolvePlain returns the type of the text of a plain scalar.
func ResolvePlain(s string) ScalarType {
	return scalar.ResolvePlain(s)
}
