package yamlast

import (
	"bytes"
	"io"

	"github.com/adamvoss/yamlast/ast"
	"github.com/adamvoss/yamlast/internal/formatter"
)

// Format writes node as JSON text to w. Object properties keep their
// source order, duplicates included; a property without a value is written
// with null. Numbers that JSON cannot represent, such as the YAML .inf and
// .nan values, make Format fail.
//
// Use the Indent option to select the indented form.
func Format(w io.Writer, node ast.Node, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	return formatter.New(w, o.indent).Format(node)
}

// JSON returns the tree of doc as JSON text. It is Format into a buffer.
func (d *Document) JSON(opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Format(&buf, d.Root, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
