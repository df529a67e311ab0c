package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const dumpIndent = "  "

// dumper writes an indented, line-per-node rendering of a tree.
type dumper struct {
	w     io.Writer
	depth int
}

// Dump writes a deterministic rendering of the tree rooted at n to w, one
// node per line with its kind, payload and range.
func Dump(w io.Writer, n Node) error {
	d := &dumper{w: w}
	if n == nil {
		return d.line("<no root>")
	}
	return d.writeNode(n)
}

// DumpString is Dump into a string.
func DumpString(n Node) string {
	var sb strings.Builder
	_ = Dump(&sb, n)
	return sb.String()
}

func (d *dumper) line(format string, args ...any) error {
	_, err := fmt.Fprintf(d.w, "%s"+format+"\n", append([]any{strings.Repeat(dumpIndent, d.depth)}, args...)...)
	return err
}

func (d *dumper) children(nodes ...Node) error {
	d.depth++
	defer func() { d.depth-- }()
	for _, c := range nodes {
		if err := d.writeNode(c); err != nil {
			return err
		}
	}
	return nil
}

func (d *dumper) writeNode(node Node) error {
	switch n := node.(type) {
	case *Object:
		if err := d.line("object %s", n.Range()); err != nil {
			return err
		}
		return d.children(Children(n)...)
	case *Array:
		if err := d.line("array %s", n.Range()); err != nil {
			return err
		}
		return d.children(n.Items...)
	case *Property:
		if err := d.line("property %s", n.Range()); err != nil {
			return err
		}
		if err := d.children(Children(n)...); err != nil {
			return err
		}
		if n.Value == nil {
			d.depth++
			err := d.line("<missing value>")
			d.depth--
			return err
		}
		return nil
	case *String:
		if n.IsKey {
			return d.line("key %s %s", strconv.Quote(n.Value), n.Range())
		}
		return d.line("string %s %s", strconv.Quote(n.Value), n.Range())
	case *Number:
		kind := "float"
		if n.IsInteger {
			kind = "int"
		}
		return d.line("number %s %s %s", strconv.FormatFloat(n.Value, 'g', -1, 64), kind, n.Range())
	case *Boolean:
		return d.line("boolean %t %s", n.Value, n.Range())
	case *Null:
		return d.line("null %s", n.Range())
	default:
		return fmt.Errorf("ast: unsupported node type for dump: %T", n)
	}
}
