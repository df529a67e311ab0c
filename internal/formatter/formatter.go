package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/adamvoss/yamlast/ast"
)

// Formatter writes a tree as JSON text to an output stream. Object keys keep
// their source order, duplicates included.
type Formatter struct {
	w      io.Writer
	indent string
	depth  int
}

// New returns a new formatter that writes to w. An indent of zero or less
// selects the compact form.
func New(w io.Writer, indent int) *Formatter {
	var indentStr string
	if indent > 0 {
		indentStr = strings.Repeat(" ", indent)
	}
	return &Formatter{w: w, indent: indentStr}
}

// Format writes the JSON representation of node. A nil node is written as
// null.
func (f *Formatter) Format(node ast.Node) error {
	return f.writeNode(node)
}

func (f *Formatter) write(s string) error {
	_, err := io.WriteString(f.w, s)
	return err
}

func (f *Formatter) writeIndent() error {
	if f.indent == "" {
		return nil
	}
	if err := f.write("\n"); err != nil {
		return err
	}
	return f.write(strings.Repeat(f.indent, f.depth))
}

func (f *Formatter) writeNode(node ast.Node) error {
	switch n := node.(type) {
	case nil:
		return f.write("null")
	case *ast.Object:
		return f.writeObject(n)
	case *ast.Array:
		return f.writeArray(n)
	case *ast.Property:
		return f.writeNode(n.Value)
	case *ast.String:
		return f.writeString(n.Value)
	case *ast.Number:
		b, err := json.Marshal(n.Value)
		if err != nil {
			return fmt.Errorf("formatter: number at %s: %w", n.Range(), err)
		}
		_, err = f.w.Write(b)
		return err
	case *ast.Boolean:
		if n.Value {
			return f.write("true")
		}
		return f.write("false")
	case *ast.Null:
		return f.write("null")
	default:
		return fmt.Errorf("formatter: unsupported node type %T", n)
	}
}

func (f *Formatter) writeString(s string) error {
	b, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return err
	}
	_, err = f.w.Write(b)
	return err
}

func (f *Formatter) writeObject(obj *ast.Object) error {
	if err := f.write("{"); err != nil {
		return err
	}
	if len(obj.Properties) == 0 {
		return f.write("}")
	}
	sep := ":"
	if f.indent != "" {
		sep = ": "
	}
	f.depth++
	for i, prop := range obj.Properties {
		if i > 0 {
			if err := f.write(","); err != nil {
				return err
			}
		}
		if err := f.writeIndent(); err != nil {
			return err
		}
		if err := f.writeString(prop.Name()); err != nil {
			return err
		}
		if err := f.write(sep); err != nil {
			return err
		}
		if err := f.writeNode(prop.Value); err != nil {
			return err
		}
	}
	f.depth--
	if err := f.writeIndent(); err != nil {
		return err
	}
	return f.write("}")
}

func (f *Formatter) writeArray(arr *ast.Array) error {
	if err := f.write("["); err != nil {
		return err
	}
	if len(arr.Items) == 0 {
		return f.write("]")
	}
	f.depth++
	for i, item := range arr.Items {
		if i > 0 {
			if err := f.write(","); err != nil {
				return err
			}
		}
		if err := f.writeIndent(); err != nil {
			return err
		}
		if err := f.writeNode(item); err != nil {
			return err
		}
	}
	f.depth--
	if err := f.writeIndent(); err != nil {
		return err
	}
	return f.write("]")
}
